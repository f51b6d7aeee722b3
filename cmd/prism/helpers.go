package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"prism/internal/project"
)

// entityFlags selects an asset or shot scene directory.
type entityFlags struct {
	asset    string
	shot     string
	step     string
	category string
}

func (f *entityFlags) bind(cmd *cobra.Command, withStep, withCategory bool) {
	cmd.Flags().StringVar(&f.asset, "asset", "", "Asset path relative to the asset root")
	cmd.Flags().StringVar(&f.shot, "shot", "", "Shot name (sequence and shot joined)")
	if withStep {
		cmd.Flags().StringVar(&f.step, "step", "", "Pipeline step")
	}
	if withCategory {
		cmd.Flags().StringVar(&f.category, "category", "", "Step category")
	}
}

func (f *entityFlags) query() (project.EntityQuery, error) {
	if f.asset == "" && f.shot == "" {
		return project.EntityQuery{}, fmt.Errorf("one of --asset or --shot is required")
	}
	if f.asset != "" && f.shot != "" {
		return project.EntityQuery{}, fmt.Errorf("--asset and --shot are mutually exclusive")
	}
	return project.EntityQuery{
		Asset:    f.asset,
		Shot:     f.shot,
		Step:     f.step,
		Category: f.category,
	}, nil
}

// parseFrameRange parses "start-end".
func parseFrameRange(value string) ([]int, error) {
	if value == "" {
		return nil, nil
	}
	startText, endText, ok := strings.Cut(value, "-")
	if !ok {
		return nil, fmt.Errorf("frame range %q: expected start-end", value)
	}
	start, err := strconv.Atoi(strings.TrimSpace(startText))
	if err != nil {
		return nil, fmt.Errorf("frame range start: %w", err)
	}
	end, err := strconv.Atoi(strings.TrimSpace(endText))
	if err != nil {
		return nil, fmt.Errorf("frame range end: %w", err)
	}
	if end < start {
		return nil, fmt.Errorf("frame range %q ends before it starts", value)
	}
	return []int{start, end}, nil
}

// parseKeyValues turns key=value pairs into a map.
func parseKeyValues(pairs []string) (map[string]any, error) {
	out := make(map[string]any, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || strings.TrimSpace(key) == "" {
			return nil, fmt.Errorf("argument %q: expected key=value", pair)
		}
		out[strings.TrimSpace(key)] = value
	}
	return out, nil
}
