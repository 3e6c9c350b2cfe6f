// Command bankability computes a solar project's financing structure and
// returns metrics from an inputs file, or evaluates a directory of scenarios.
//
//	bankability -input project.json -format markdown
//	bankability -dir scenarios -strict
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"text/tabwriter"

	"github.com/hugomtns/pv-projectmgmt-sub005/pkg/core/assumption"
	"github.com/hugomtns/pv-projectmgmt-sub005/pkg/core/config"
	"github.com/hugomtns/pv-projectmgmt-sub005/pkg/core/report"
	"github.com/hugomtns/pv-projectmgmt-sub005/pkg/core/scenario"
	"github.com/hugomtns/pv-projectmgmt-sub005/pkg/core/utils"
	"github.com/hugomtns/pv-projectmgmt-sub005/pkg/core/valuation"
)

func main() {
	input := flag.String("input", "", "Inputs document (JSON, Hjson); - reads stdin")
	dir := flag.String("dir", "", "Evaluate every scenario file under this directory")
	format := flag.String("format", "json", "Output format: json, markdown or html")
	title := flag.String("title", "", "Report title")
	strict := flag.Bool("strict", false, "Fail when an IRR does not converge")
	concurrency := flag.Int("concurrency", scenario.DefaultConcurrency, "Parallel scenario evaluations")
	configPath := flag.String("config", "", "Path to YAML config (default "+config.DefaultPath+")")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Error: %v", err)
	}
	opts := cfg.Options()
	if *strict {
		opts.StrictIRR = true
	}

	switch {
	case *dir != "":
		if err := runBatch(*dir, opts, *concurrency); err != nil {
			log.Fatalf("Error: %v", err)
		}
	case *input != "":
		if err := runSingle(*input, *format, *title, opts); err != nil {
			log.Fatalf("Error: %v", err)
		}
	default:
		flag.Usage()
		os.Exit(2)
	}
}

func runSingle(path, format, title string, opts valuation.Options) error {
	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return err
	}

	var in assumption.ModelInputs
	if _, stage, err := utils.SmartParse(data, &in); err != nil {
		return err
	} else if stage != utils.StageJSON {
		log.Printf("[WARNING] %s parsed as %s", path, stage)
	}

	res, err := valuation.Compute(in, opts)
	if err != nil {
		return err
	}

	switch format {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	case "markdown", "md":
		fmt.Print(report.Markdown(title, res))
		return nil
	case "html":
		page, err := report.HTML(title, res)
		if err != nil {
			return err
		}
		fmt.Print(page)
		return nil
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}

func runBatch(dir string, opts valuation.Options, concurrency int) error {
	reg := scenario.NewRegistry()
	if _, err := scenario.LoadFromDirectory(reg, dir); err != nil {
		return err
	}

	outcomes, err := scenario.EvaluateAll(context.Background(), reg.List(), opts, concurrency)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "SCENARIO\tDEBT\tPROJECT IRR\tEQUITY IRR\tMIN DSCR\tLCOE\tVERDICT")
	for _, o := range outcomes {
		if o.Err != nil {
			fmt.Fprintf(tw, "%s\t-\t-\t-\t-\t-\terror: %v\n", o.Name, o.Err)
			continue
		}
		m := o.Result.Metrics
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			o.Name,
			report.Money(o.Result.Financing.Debt),
			report.Percent(m.ProjectIRR),
			report.Percent(m.EquityIRR),
			report.Ratio(m.MinDSCR),
			report.Number(m.LCOE, 2),
			o.Result.Assessment.Verdict)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if failed := scenario.Failed(outcomes); len(failed) > 0 {
		return fmt.Errorf("%d of %d scenarios failed", len(failed), len(outcomes))
	}
	return nil
}
