package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/rohan4852/AuditBot/internal/config"
	"github.com/rohan4852/AuditBot/internal/extract"
	"github.com/rohan4852/AuditBot/internal/llm"
	"github.com/rohan4852/AuditBot/internal/ocr"
	"github.com/rohan4852/AuditBot/internal/pipeline"
	"github.com/rohan4852/AuditBot/internal/report"
)

func main() {
	os.Exit(run())
}

func run() int {
	_ = godotenv.Load()

	var (
		pdfPath    string
		question   string
		model      string
		cfgPath    string
		reportPath string
	)
	flag.StringVar(&pdfPath, "pdf", "", "path to the PDF to audit (required)")
	flag.StringVar(&question, "question", "", "audit question (default: a fixed sample question)")
	flag.StringVar(&model, "model", "", "model name; empty discovers one via ListModels")
	flag.StringVar(&cfgPath, "config", "", "optional YAML config file")
	flag.StringVar(&reportPath, "report", "", "optional XLSX report output path")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	if pdfPath == "" {
		logger.Error("usage", "cmd", "auditbot -pdf <file> [-question ...] [-model ...] [-config ...] [-report ...]")
		return 2
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		logger.Error("load config", "error", err)
		return 1
	}
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid config", "error", err)
		return 1
	}

	engine, err := ocr.NewTesseractEngine(ocr.Config{
		Language:    cfg.OCR.Language,
		TessdataDir: cfg.OCR.TessdataDir,
	})
	if err != nil {
		logger.Error("init tesseract", "error", err)
		return 1
	}
	defer func() {
		if cerr := engine.Close(); cerr != nil {
			logger.Warn("close tesseract", "error", cerr)
		}
	}()

	recognizer := ocr.NewRecognizer(engine, ocr.Config{
		Language: cfg.OCR.Language,
		DPI:      cfg.OCR.DPI,
	}, logger)
	extractor := extract.NewExtractor(recognizer, cfg.OCR.TextThreshold, logger)

	client := llm.NewClient(llm.Config{
		APIKey:  cfg.API.Key,
		BaseURL: cfg.API.BaseURL,
		Timeout: cfg.API.Timeout,
	}, logger)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	modelName := model
	if modelName == "" {
		modelName = cfg.API.Model
	}
	if modelName == "" {
		modelName = client.ChooseModel(ctx)
	}
	logger.Info("using model", "model", modelName)

	auditor := pipeline.New(extractor, client, modelName, logger)
	out, err := auditor.Run(ctx, pdfPath, question)
	if err != nil {
		logger.Error("audit failed", "path", pdfPath, "error", err)
		return 1
	}

	fmt.Println("\n=== Audit Report ===")
	fmt.Println()
	fmt.Println(out.Answer)

	if reportPath == "" {
		reportPath = cfg.Report.Path
	}
	if reportPath != "" {
		if err := report.WriteXLSX(reportPath, []report.Row{out.Row}); err != nil {
			logger.Error("write report", "path", reportPath, "error", err)
			return 1
		}
		logger.Info("report written", "path", reportPath)
	}
	return 0
}
