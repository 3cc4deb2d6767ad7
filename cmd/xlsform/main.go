package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/goliatone/go-xlsform/internal/prompt"
	"github.com/goliatone/go-xlsform/internal/workbook"
	"github.com/goliatone/go-xlsform/pkg/form"
	"github.com/goliatone/go-xlsform/pkg/pipeline"
	"github.com/goliatone/go-xlsform/pkg/tabular"
)

func main() {
	output := flag.String("output", "", "output file or directory (stdout if empty)")
	asJSON := flag.Bool("json", false, "print the full compilation result as JSON")
	interactive := flag.Bool("interactive", false, "prompt for missing settings and confirm overwrites")
	flag.Parse()

	inputs := flag.Args()
	if len(inputs) == 0 {
		log.Fatalf("usage: xlsform [flags] <form.xlsx|form.yaml|csv-dir> ...")
	}
	if len(inputs) > 1 && *output != "" && !isDir(*output) {
		log.Fatalf("with multiple inputs, -output must be a directory")
	}

	ctx := context.Background()
	var driver prompt.Driver
	if *interactive {
		driver = prompt.NewDriver()
	}

	if len(inputs) == 1 {
		if err := compileOne(ctx, inputs[0], *output, *asJSON, driver); err != nil {
			log.Fatalf("%v", err)
		}
		return
	}

	// Independent forms share no state, so batch inputs compile in parallel.
	// Interactive prompts would interleave, hence the single-input restriction.
	if driver != nil {
		log.Fatalf("-interactive supports a single input")
	}
	group, groupCtx := errgroup.WithContext(ctx)
	for _, input := range inputs {
		input := input
		group.Go(func() error {
			return compileOne(groupCtx, input, *output, *asJSON, nil)
		})
	}
	if err := group.Wait(); err != nil {
		log.Fatalf("%v", err)
	}
}

func compileOne(ctx context.Context, input, output string, asJSON bool, driver prompt.Driver) error {
	req, err := buildRequest(input)
	if err != nil {
		return err
	}
	if driver != nil {
		if err := fillSettings(ctx, driver, &req); err != nil {
			return err
		}
	}

	result := pipeline.New().Compile(ctx, req)

	for _, warning := range result.Warnings {
		log.Printf("%s: warning: %s", input, warning.Message)
	}

	if asJSON {
		encoded, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("%s: encode result: %w", input, err)
		}
		fmt.Println(string(encoded))
		if !result.Success {
			return fmt.Errorf("%s: compilation failed", input)
		}
		return nil
	}

	if !result.Success {
		for _, issue := range result.Errors {
			log.Printf("%s: error: %s", input, issue.Message)
		}
		return fmt.Errorf("%s: compilation failed", input)
	}

	target := outputPath(input, output, result.Metadata.FormID)
	if target == "" {
		fmt.Print(result.XFormXML)
		return nil
	}
	if driver != nil {
		if _, err := os.Stat(target); err == nil {
			overwrite, err := driver.Confirm(ctx, prompt.ConfirmConfig{
				Message: fmt.Sprintf("%s exists, overwrite?", target),
			})
			if err != nil {
				return err
			}
			if !overwrite {
				return nil
			}
		}
	}
	if err := os.WriteFile(target, []byte(result.XFormXML), 0o644); err != nil {
		return fmt.Errorf("%s: write output: %w", input, err)
	}
	fmt.Printf("%s -> %s\n", input, target)
	return nil
}

func buildRequest(input string) (pipeline.Request, error) {
	if isDir(input) {
		wb, err := workbook.ReadCSVDir(input)
		if err != nil {
			return pipeline.Request{}, err
		}
		return pipeline.Request{Workbook: &wb}, nil
	}

	switch strings.ToLower(filepath.Ext(input)) {
	case ".xlsx":
		wb, err := workbook.ReadXLSXFile(input)
		if err != nil {
			return pipeline.Request{}, err
		}
		return pipeline.Request{Workbook: &wb}, nil
	case ".yaml", ".yml":
		raw, err := os.ReadFile(input)
		if err != nil {
			return pipeline.Request{}, fmt.Errorf("read %s: %w", input, err)
		}
		doc, err := form.DecodeYAML(raw)
		if err != nil {
			return pipeline.Request{}, fmt.Errorf("%s: %w", input, err)
		}
		return pipeline.Request{Document: doc}, nil
	default:
		return pipeline.Request{}, fmt.Errorf("%s: unsupported input (want .xlsx, .yaml, or a csv directory)", input)
	}
}

// fillSettings parses workbook input early so missing title and id can be
// asked for before compilation.
func fillSettings(ctx context.Context, driver prompt.Driver, req *pipeline.Request) error {
	if req.Workbook != nil {
		sheets, err := tabular.Parse(*req.Workbook)
		if err != nil {
			return err
		}
		req.Workbook = nil
		req.Sheets = &sheets
	}

	ask := func(current *string, message string) error {
		if strings.TrimSpace(*current) != "" {
			return nil
		}
		value, err := driver.Input(ctx, prompt.InputConfig{Message: message})
		if err != nil {
			return err
		}
		*current = strings.TrimSpace(value)
		return nil
	}

	switch {
	case req.Sheets != nil:
		if err := ask(&req.Sheets.Settings.FormTitle, "Form title:"); err != nil {
			return err
		}
		return ask(&req.Sheets.Settings.FormID, "Form id:")
	case req.Document != nil:
		if err := ask(&req.Document.Title, "Form title:"); err != nil {
			return err
		}
		return ask(&req.Document.FormID, "Form id:")
	}
	return nil
}

func outputPath(input, output, formID string) string {
	if output == "" {
		return ""
	}
	if isDir(output) {
		base := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
		if base == "" || base == "." {
			base = formID
		}
		return filepath.Join(output, base+".xml")
	}
	return output
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
