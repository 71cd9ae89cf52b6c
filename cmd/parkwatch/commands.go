/*
LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"strconv"

	"github.com/ausocean/parkwatch/monitor/config"
	"github.com/ausocean/parkwatch/render"
	"github.com/ausocean/parkwatch/spot"
	"github.com/ausocean/parkwatch/store"
)

var errUsage = errors.New("usage: spots list|add X Y|remove X Y|delete N|clear")

// runSpots edits the saved spot list. Every command other than list saves
// the edited list, including an empty one, and then prints it.
func runSpots(c config.Config, args []string, out io.Writer) error {
	if len(args) == 0 {
		args = []string{"list"}
	}
	nums, err := ints(args[1:])
	if err != nil {
		return err
	}

	db, err := store.Open(c.DBPath, c.Logger)
	if err != nil {
		return err
	}
	defer db.Close()

	spots, err := db.LoadSpots(c.SpotsKey)
	if err != nil {
		return err
	}
	list := spot.NewList(spots)

	switch {
	case args[0] == "list" && len(nums) == 0:
		printSpots(out, list.Snapshot())
		return nil
	case args[0] == "add" && len(nums) == 2:
		err = list.Add(nums[0], nums[1])
	case args[0] == "remove" && len(nums) == 2:
		n := list.RemoveAt(nums[0], nums[1], int(c.SpotWidth), int(c.SpotHeight))
		fmt.Fprintf(out, "removed %d spots\n", n)
	case args[0] == "delete" && len(nums) == 1:
		err = list.Delete(nums[0])
	case args[0] == "clear" && len(nums) == 0:
		list.Clear()
	default:
		return errUsage
	}
	if err != nil {
		return err
	}

	err = db.SaveSpots(c.SpotsKey, list.Snapshot())
	if err != nil {
		return err
	}
	printSpots(out, list.Snapshot())
	return nil
}

func ints(args []string) ([]int, error) {
	nums := make([]int, len(args))
	for i, a := range args {
		n, err := strconv.Atoi(a)
		if err != nil {
			return nil, fmt.Errorf("bad number %q: %w", a, errUsage)
		}
		nums[i] = n
	}
	return nums, nil
}

func printSpots(w io.Writer, spots []spot.Spot) {
	if len(spots) == 0 {
		fmt.Fprintln(w, "no spots")
		return
	}
	for i, s := range spots {
		fmt.Fprintf(w, "%s\t%d\t%d\n", spot.Label(i), s.X, s.Y)
	}
}

// runAnalyze prints the summary of the monitoring records of one camera, or
// of every camera. With -plot the occupancy over time is also charted.
func runAnalyze(c config.Config, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("analyze", flag.ContinueOnError)
	fs.SetOutput(out)
	camera := fs.String("camera", "", "camera to analyze; all cameras if empty")
	plot := fs.String("plot", "", "save an occupancy chart to this file (.png, .svg or .pdf)")
	err := fs.Parse(args)
	if err != nil {
		return err
	}

	db, err := store.Open(c.DBPath, c.Logger)
	if err != nil {
		return err
	}
	defer db.Close()

	records, err := db.Records(*camera)
	if err != nil {
		return err
	}
	s, err := store.Summarize(records)
	if errors.Is(err, store.ErrNoRecords) {
		fmt.Fprintln(out, "No monitoring data available!")
		return nil
	}
	if err != nil {
		return err
	}
	fmt.Fprint(out, s)

	if *plot == "" {
		return nil
	}
	err = render.Chart(records, *plot)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Chart saved to %s\n", *plot)
	return nil
}
