package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/lmittmann/tint"
	"github.com/urfave/cli/v3"

	"github.com/codelab-lv/runner/internal/behave"
	"github.com/codelab-lv/runner/internal/gatherer/termgath"
	"github.com/codelab-lv/runner/internal/grader"
	"github.com/codelab-lv/runner/internal/langs"
	"github.com/codelab-lv/runner/internal/sandbox"
)

func main() {
	cmd := &cli.Command{
		Name:      "scenario",
		Usage:     "run a behaviour suite against the grading engine",
		ArgsUsage: "<suite.toml>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "languages",
				Usage: "TOML language registry file (defaults to built-ins)",
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "stream per-test progress to the terminal",
			},
		},
		Action: run,
	}
	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("scenario run failed", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() != 1 {
		return fmt.Errorf("expected exactly one behaviour file argument")
	}
	log := slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      slog.LevelWarn,
		TimeFormat: time.Kitchen,
	}))
	slog.SetDefault(log)

	registry, err := buildRegistry(cmd.String("languages"))
	if err != nil {
		return err
	}
	cases, err := behave.Parse(cmd.Args().First(), registry)
	if err != nil {
		return err
	}

	runner := sandbox.NewRunner(log)
	grd := grader.New(runner, log)

	pass := color.New(color.FgGreen, color.Bold).SprintFunc()
	fail := color.New(color.FgRed, color.Bold).SprintFunc()

	failed := 0
	for _, c := range cases {
		var verdict grader.Verdict
		if cmd.Bool("verbose") {
			verdict, err = grd.GradeObserved(ctx, c.Tests, c.Profile, c.Code, termgath.New())
		} else {
			verdict, err = grd.Grade(ctx, c.Tests, c.Profile, c.Code)
		}
		if err != nil {
			fmt.Printf("%s %s: %v\n", fail("ERR "), c.Name, err)
			failed++
			continue
		}

		ok := verdict.PassedAll == c.Expect.PassedAll &&
			len(verdict.Results) == c.Expect.Attempted
		if ok {
			fmt.Printf("%s %s\n", pass("PASS"), c.Name)
		} else {
			fmt.Printf("%s %s: got passed_all=%v attempted=%d, want passed_all=%v attempted=%d\n",
				fail("FAIL"), c.Name,
				verdict.PassedAll, len(verdict.Results),
				c.Expect.PassedAll, c.Expect.Attempted)
			failed++
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d scenarios failed", failed, len(cases))
	}
	fmt.Printf("all %d scenarios passed\n", len(cases))
	return nil
}

func buildRegistry(path string) (*langs.Registry, error) {
	if path != "" {
		return langs.LoadFile(path)
	}
	return langs.NewRegistry(langs.Defaults()...)
}
