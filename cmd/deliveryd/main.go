// Command deliveryd serves the delivery-stream template compiler over HTTP.
//
// Settings come from the YAML file named by DELIVERYD_CONFIG (default deliveryd.yaml)
// overlaid with DELIVERYD_* environment variables, e.g. DELIVERYD_AUTH__JWT_SECRET.
package main

import (
	"github.com/joeydtaylor/steeze-firehose/pkg/serverfx"
	"go.uber.org/fx"
)

func main() {
	fx.New(
		serverfx.Module(serverfx.WithService("deliveryd")),
		fx.NopLogger,
	).Run()
}
