package main

import (
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/awslabs/aws-lambda-go-api-proxy/httpadapter"
	"github.com/spf13/cobra"

	taohttp "github.com/taobot/taobot/http"
)

// startLambda is swapped out in tests; lambda.Start never returns.
var startLambda = func(handler any) { lambda.Start(handler) }

// newLambdaCmd creates the 'lambda' subcommand, which serves API Gateway v2
// HTTP events through the same adapter the Vercel function uses.
func newLambdaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "lambda",
		Short: "Run as an AWS Lambda function behind API Gateway",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLambda()
		},
	}
}

func runLambda() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	adapter := taohttp.NewAdapter(taohttp.ApplicationFactory(cfg))
	startLambda(httpadapter.NewV2(adapter).ProxyWithContext)
	return nil
}
