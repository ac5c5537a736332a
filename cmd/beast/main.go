// Command beast assembles the hello-world example program, runs it
// through a VmSession, prints a runtime-statistics report, and then
// drives a small factory -> evolution -> sink pipeline for a few cycles.
package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/olekukonko/tablewriter"

	"beast/eval"
	"beast/ga"
	"beast/opcode"
	"beast/pipe"
	"beast/pipeline"
	"beast/program"
	"beast/vm"
)

func main() {
	debug := flag.Bool("debug", false, "enable debug-severity logging")
	pipelineSeconds := flag.Int("pipeline-seconds", 1, "how long to run the demo pipeline before stopping it")
	configPath := flag.String("config", "", "path to a TOML file overriding the hello-world session limits")
	flag.Parse()

	sev := vm.Info
	if *debug {
		sev = vm.Debug
	}
	logger := vm.NewLogger(os.Stdout, sev)

	cfg := vm.Config{VariableCount: 16, StringTableCount: 4, MaxStringSize: 256, MaxPrintBufferLen: 4096}
	if *configPath != "" {
		f, err := os.Open(*configPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, "opening config:", err)
			os.Exit(1)
		}
		cfg, err = vm.LoadConfig(f)
		f.Close()
		if err != nil {
			fmt.Fprintln(os.Stderr, "loading config:", err)
			os.Exit(1)
		}
	}

	if err := runHelloWorld(logger, cfg); err != nil {
		fmt.Fprintln(os.Stderr, "hello world demo:", err)
		os.Exit(1)
	}
	if err := runPipelineDemo(logger, time.Duration(*pipelineSeconds)*time.Second); err != nil {
		fmt.Fprintln(os.Stderr, "pipeline demo:", err)
		os.Exit(1)
	}
}

func runHelloWorld(logger *vm.Logger, cfg vm.Config) error {
	p := program.NewGrowing()
	if err := p.SetStringTableEntry(0, "Hello World!"); err != nil {
		return err
	}
	if err := p.PrintStringFromStringTable(0); err != nil {
		return err
	}
	if err := p.Terminate(0); err != nil {
		return err
	}

	s := vm.NewSession(p, cfg, logger)
	cpu := vm.NewCpuVirtualMachine(logger)
	if err := cpu.Run(s, false); err != nil {
		return err
	}

	fmt.Println(string(s.PrintBuffer()))
	printStatsReport(s.Statistics())
	return nil
}

// runPipelineDemo wires ProgramFactoryPipe -> EvolutionPipe -> NullSinkPipe,
// lets it run for duration, then stops it.
func runPipelineDemo(logger *vm.Logger, duration time.Duration) error {
	cfg := vm.Config{VariableCount: 8, StringTableCount: 2, MaxStringSize: 32, MaxPrintBufferLen: 512}
	limits := pipe.FactoryLimits{ProgramSize: 48, VariableCount: cfg.VariableCount, StringTableCount: cfg.StringTableCount, MaxStringSize: cfg.MaxStringSize}

	factory := pipe.NewProgramFactoryPipe("factory", 8, pipe.NewRandomInstructionFactory(rand.New(rand.NewSource(time.Now().UnixNano()))), limits)

	noopUsage := eval.NewOperatorUsageEvaluator(opcode.NoOp)
	scorer := pipe.SessionScorer(cfg, logger, noopUsage.Evaluate)

	recombinator := ga.NewSimpleRecombinator(ga.NewConfig(8))
	evolution := pipe.NewEvolutionPipe("evolution", 8, recombinator, scorer)

	sink := pipe.NewNullSinkPipe("sink", 8)

	pl := pipeline.New()
	if err := pl.AddPipe("factory", factory); err != nil {
		return err
	}
	if err := pl.AddPipe("evolution", evolution); err != nil {
		return err
	}
	if err := pl.AddPipe("sink", sink); err != nil {
		return err
	}
	if err := pl.Connect("factory", 0, "evolution", 0, 8); err != nil {
		return err
	}
	if err := pl.Connect("evolution", 0, "sink", 0, 8); err != nil {
		return err
	}

	if err := pl.Start(); err != nil {
		return err
	}
	time.Sleep(duration)
	return pl.Stop()
}

func printStatsReport(stats vm.RuntimeStatistics) {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"metric", "value"})
	table.Append([]string{"steps executed", fmt.Sprintf("%d", stats.StepsExecuted)})
	table.Append([]string{"noop fraction", fmt.Sprintf("%.3f", stats.NoopFraction())})
	table.Append([]string{"abnormal exit", fmt.Sprintf("%v", stats.AbnormalExit)})
	table.Render()
}
