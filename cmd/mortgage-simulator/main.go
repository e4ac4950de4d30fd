package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/iwvelando/mortgage-simulator/internal/config"
	"github.com/iwvelando/mortgage-simulator/internal/logging"
	"github.com/iwvelando/mortgage-simulator/internal/simulator"
	"github.com/iwvelando/mortgage-simulator/internal/source"
	"github.com/iwvelando/mortgage-simulator/pkg/constants"
	"github.com/iwvelando/mortgage-simulator/pkg/financing"
	"github.com/iwvelando/mortgage-simulator/pkg/output"
	"github.com/iwvelando/mortgage-simulator/pkg/validation"
	"go.uber.org/zap"
)

const defaultPDFFile = "simulation.pdf"

// applyFlagOverrides copies every simulation flag set on the command line
// onto the configured input.
func applyFlagOverrides(fs *flag.FlagSet, in *financing.Input, overrides financing.Input) {
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "property-value":
			in.PropertyValue = overrides.PropertyValue
		case "gross-income":
			in.GrossIncome = overrides.GrossIncome
		case "term":
			in.TermMonths = overrides.TermMonths
		case "age":
			in.Age = overrides.Age
		case "fgts":
			in.FGTSAmount = overrides.FGTSAmount
		case "dependents":
			in.HasDependents = overrides.HasDependents
		}
	})
}

func writeResult(format string, pdfPath string, in financing.Input, res financing.Result, stdout io.Writer) error {
	switch format {
	case constants.OutputFormatPretty:
		return output.PrettyFormat(stdout, in, res)
	case constants.OutputFormatCSV:
		return output.CsvFormat(stdout, in, res)
	case constants.OutputFormatJSON:
		return output.JSONFormat(stdout, in, res)
	case constants.OutputFormatPDF:
		if pdfPath == "" {
			pdfPath = defaultPDFFile
		}
		if dir := filepath.Dir(pdfPath); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return fmt.Errorf("failed to create output directory %s: %w", dir, err)
			}
		}
		file, err := os.Create(pdfPath)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", pdfPath, err)
		}
		if err := output.PDFFormat(file, in, res, time.Now()); err != nil {
			_ = file.Close()
			return err
		}
		if err := file.Close(); err != nil {
			return fmt.Errorf("failed to close %s: %w", pdfPath, err)
		}
		fmt.Fprintf(stdout, "report written to %s\n", pdfPath)
		return nil
	default:
		return fmt.Errorf("unsupported output format %s", format)
	}
}

func main() {
	// Process command line flags first to get config location
	configLocation := flag.String("config", constants.DefaultConfigFile, "path to configuration file")
	outputFormatFlag := flag.String("output-format", "", "type of output override: pretty, csv, json, pdf")
	outputFileFlag := flag.String("output-file", "", "destination of the pdf report")
	logLevel := flag.String("log-level", "", "log level override (debug, info, warn, error)")
	tableSource := flag.String("table-source", "", "financing table source override (path, http(s)://, redis://, sqlite://)")

	var overrides financing.Input
	flag.Float64Var(&overrides.PropertyValue, "property-value", 0, "property value")
	flag.Float64Var(&overrides.GrossIncome, "gross-income", 0, "monthly gross income")
	flag.IntVar(&overrides.TermMonths, "term", 0, "financing term in months")
	flag.IntVar(&overrides.Age, "age", 0, "buyer age")
	flag.Float64Var(&overrides.FGTSAmount, "fgts", 0, "FGTS balance applied to the purchase")
	flag.BoolVar(&overrides.HasDependents, "dependents", false, "buyer has dependents")
	flag.Parse()

	// Load the config file to get logging configuration
	conf, err := config.LoadConfiguration(*configLocation)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to load configuration at %s\", \"error\": \"%v\"}\n", *configLocation, err)
		os.Exit(1)
	}

	// Initialize logging based on config and CLI override
	logger, err := logging.New(conf.Logging, *logLevel)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to initialize logger\", \"error\": \"%v\"}\n", err)
		os.Exit(1)
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
	if err := validation.ValidateOutputFormat(outputFormat); err != nil {
		logger.Fatal(err.Error(),
			zap.String("op", "main"),
		)
	}

	if *outputFileFlag != "" {
		conf.Output.File = *outputFileFlag
	}
	if *tableSource != "" {
		conf.Table.Source = *tableSource
	}
	applyFlagOverrides(flag.CommandLine, &conf.Simulation, overrides)

	// Validate configuration and display any warnings
	for _, warning := range conf.ValidateConfiguration() {
		logger.Warn("Configuration warning: "+warning,
			zap.String("op", "main"),
		)
	}

	src, err := source.New(logger, conf.Table.Source, conf.Table.SourceOptions())
	if err != nil {
		logger.Fatal("failed to configure financing table source",
			zap.String("op", "main"),
			zap.String("source", conf.Table.Source),
			zap.Error(err),
		)
	}

	timeout := conf.Table.Timeout
	if timeout <= 0 {
		timeout = constants.DefaultTableTimeoutSeconds * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	sim := simulator.New(logger)
	if err := sim.Load(ctx, src); err != nil {
		logger.Fatal("failed to load financing table",
			zap.String("op", "main"),
			zap.String("source", src.Describe()),
			zap.Error(err),
		)
	}

	result, err := sim.Simulate(conf.Simulation)
	if err != nil {
		logger.Fatal("failed to compute simulation",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}

	if err := writeResult(outputFormat, conf.Output.File, conf.Simulation, result, os.Stdout); err != nil {
		logger.Fatal("failed to write simulation output",
			zap.String("op", "main"),
			zap.String("format", outputFormat),
			zap.Error(err),
		)
	}
}
