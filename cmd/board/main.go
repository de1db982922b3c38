// Command board prints the todo board kept in the configured directory.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/afero"
	"github.com/spf13/pflag"

	"todoTracker/internal/config"
	"todoTracker/internal/models/todo"
	"todoTracker/internal/render"
	"todoTracker/internal/repository/todo/file"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(args []string) error {
	flags := pflag.NewFlagSet("board", pflag.ExitOnError)
	config.Flags(flags)
	plain := flags.Bool("plain", false, "print todo.txt lines without colours")
	dueOnly := flags.Bool("due", false, "list only todos due today or earlier")
	if err := flags.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load(flags)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if printCfg, _ := flags.GetBool("print-config"); printCfg {
		return cfg.WriteYAML(os.Stdout)
	}

	table, err := file.NewLoader(afero.NewOsFs(), cfg.Board.Dir).Load(cfg.Board.Name, cfg.Board.Columns)
	if err != nil {
		return fmt.Errorf("load board: %w", err)
	}

	scheme := render.DefaultScheme()
	if *plain {
		scheme = render.PlainScheme()
	}

	if *dueOnly {
		for _, e := range table.DueTodos(todo.Today()) {
			fmt.Printf("%s: %s\n", e.Column, render.Line(e.Todo, scheme))
		}
		return nil
	}
	fmt.Print(render.Board(table, scheme))
	return nil
}
