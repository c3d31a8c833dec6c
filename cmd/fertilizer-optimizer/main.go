package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/agriview/fertilizer-optimizer/internal/breakeven"
	"github.com/agriview/fertilizer-optimizer/internal/config"
	"github.com/agriview/fertilizer-optimizer/internal/optimizer"
	"github.com/agriview/fertilizer-optimizer/internal/pareto"
	"github.com/agriview/fertilizer-optimizer/pkg/constants"
	"github.com/agriview/fertilizer-optimizer/pkg/output"
	"github.com/agriview/fertilizer-optimizer/pkg/prices"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// fillPrices resolves prices the request document leaves at zero from its
// price table, so operators can keep one shared table instead of repeating
// prices per field and product.
func fillPrices(ctx context.Context, doc *config.RequestDocument, logger *zap.Logger) {
	provider := prices.NewStatic(doc.Prices.Crops, doc.Prices.Products)
	for i := range doc.Fields {
		if doc.Fields[i].CropPrice != 0 {
			continue
		}
		price, err := provider.CropPrice(ctx, doc.Fields[i].ID)
		if err != nil {
			logger.Warn("no crop price available for field",
				zap.String("op", "main"),
				zap.String("field", doc.Fields[i].ID),
			)
			continue
		}
		doc.Fields[i].CropPrice = price
	}
	for i := range doc.Products {
		if doc.Products[i].PricePerUnit != 0 {
			continue
		}
		price, err := provider.ProductPrice(ctx, doc.Products[i].ID)
		if err != nil {
			logger.Warn("no price available for product",
				zap.String("op", "main"),
				zap.String("product", doc.Products[i].ID),
			)
			continue
		}
		doc.Products[i].PricePerUnit = price
	}
}

// initializeLogger creates a zap logger based on configuration and CLI override
func initializeLogger(loggingConfig config.LoggingConfig, logLevelOverride string) (*zap.Logger, error) {
	// Determine log level (CLI override takes precedence)
	level := loggingConfig.Level
	if logLevelOverride != "" {
		level = logLevelOverride
	}
	if level == "" {
		level = "info"
	}

	var zapLevel zapcore.Level
	switch level {
	case "debug":
		zapLevel = zapcore.DebugLevel
	case "info":
		zapLevel = zapcore.InfoLevel
	case "warn", "warning":
		zapLevel = zapcore.WarnLevel
	case "error":
		zapLevel = zapcore.ErrorLevel
	default:
		return nil, fmt.Errorf("invalid log level: %s", level)
	}

	format := loggingConfig.Format
	if format == "" {
		format = "json"
	}

	var loggerConfig zap.Config
	switch format {
	case "console":
		loggerConfig = zap.NewDevelopmentConfig()
		loggerConfig.Level = zap.NewAtomicLevelAt(zapLevel)
	case "json":
		loggerConfig = zap.NewProductionConfig()
		loggerConfig.Level = zap.NewAtomicLevelAt(zapLevel)
	default:
		return nil, fmt.Errorf("invalid log format: %s", format)
	}

	// Configure output file if specified
	if loggingConfig.OutputFile != "" {
		if dir := filepath.Dir(loggingConfig.OutputFile); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, fmt.Errorf("failed to create log directory %s: %v", dir, err)
			}
		}

		// Test if we can create/write to the file
		if file, err := os.OpenFile(loggingConfig.OutputFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644); err != nil {
			return nil, fmt.Errorf("failed to open log file %s: %v", loggingConfig.OutputFile, err)
		} else {
			_ = file.Close()
		}

		loggerConfig.OutputPaths = []string{loggingConfig.OutputFile}
		loggerConfig.ErrorOutputPaths = []string{loggingConfig.OutputFile}
	}

	return loggerConfig.Build()
}

func main() {
	// Process command line flags first to get config location
	configLocation := flag.String("config", constants.DefaultConfigFile, "path to engine configuration file")
	requestLocation := flag.String("request", constants.DefaultRequestFile, "path to analysis request file")
	analysis := flag.String("analysis", "optimize", "analysis to run: optimize, budget, breakeven")
	outputFormatFlag := flag.String("output-format", "", "type of output override: pretty, csv")
	logLevel := flag.String("log-level", "", "log level override (debug, info, warn, error)")
	flag.Parse()

	// Load the config file to get logging configuration
	conf, err := config.LoadConfiguration(*configLocation)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to load configuration at %s\", \"error\": \"%v\"}\n", *configLocation, err)
		return
	}

	// Initialize logging based on config and CLI override
	logger, err := initializeLogger(conf.Logging, *logLevel)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to initialize logger\", \"error\": \"%v\"}\n", err)
		return
	}
	defer func() {
		_ = logger.Sync()
	}()

	// Determine output format (CLI override takes precedence over config)
	outputFormat := conf.Output.Format
	if *outputFormatFlag != "" {
		outputFormat = *outputFormatFlag
	}
	if outputFormat == "" {
		outputFormat = constants.OutputFormatPretty
	}
	if outputFormat != constants.OutputFormatPretty && outputFormat != constants.OutputFormatCSV {
		logger.Fatal("invalid output format "+outputFormat,
			zap.String("op", "main"),
		)
	}

	request, err := config.LoadRequest(*requestLocation)
	if err != nil {
		logger.Fatal("failed to load request",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}

	ctx := context.Background()
	fillPrices(ctx, request, logger)

	switch *analysis {
	case "optimize":
		svc := optimizer.NewService(logger, conf)
		result, err := svc.Optimize(ctx, request.OptimizationRequest())
		if err != nil {
			logger.Fatal("optimization failed",
				zap.String("op", "main"),
				zap.Error(err),
			)
		}
		if outputFormat == constants.OutputFormatCSV {
			output.CsvOptimization(result)
		} else {
			output.PrettyOptimization(result)
		}
	case "budget":
		svc := pareto.NewService(logger, conf, nil)
		result, err := svc.OptimizeBudgetConstraints(ctx, request.OptimizationRequest())
		if err != nil {
			logger.Fatal("budget analysis failed",
				zap.String("op", "main"),
				zap.Error(err),
			)
		}
		if outputFormat == constants.OutputFormatCSV {
			output.CsvMultiObjective(result)
		} else {
			output.PrettyMultiObjective(result)
		}
	case "breakeven":
		svc := breakeven.NewService(logger, conf, nil)
		result, err := svc.Analyze(ctx, request.BreakEvenRequest())
		if err != nil {
			logger.Fatal("break-even analysis failed",
				zap.String("op", "main"),
				zap.Error(err),
			)
		}
		if outputFormat == constants.OutputFormatCSV {
			output.CsvBreakEven(result)
		} else {
			output.PrettyBreakEven(result)
		}
	default:
		logger.Fatal("invalid analysis "+*analysis,
			zap.String("op", "main"),
		)
	}
}
