package bundlefx

import (
	"github.com/joeydtaylor/steeze-firehose/pkg/middleware/auth"
	"github.com/joeydtaylor/steeze-firehose/pkg/middleware/logger"
	"github.com/joeydtaylor/steeze-firehose/pkg/middleware/metrics"
	"go.uber.org/fx"
)

// Module provides the auth, logging and metrics middleware. It expects a
// settings.Settings in the graph.
var Module = fx.Options(
	auth.Module,
	logger.Module,
	metrics.Module,
)
