package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"

	devenv "mlbstats/dev/env"
	"mlbstats/lib/statcsv"
	"mlbstats/lib/stats"
	"mlbstats/lib/statstore"
)

func cmd(name string, args ...string) {
	cmd := exec.Command(name, args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	fullCmd := name
	for _, a := range args {
		fullCmd += " "
		fullCmd += a
	}

	fmt.Printf("$ %s\n", fullCmd)
	err := cmd.Run()
	if err != nil {
		os.Exit(1)
	}
}

func StartLibsqlServer() {
	cmd(
		"docker", "run", "-d",
		"--name", "mlbstats-libsql",
		"-p", "8080:8080",
		"ghcr.io/tursodatabase/libsql-server:latest",
	)
	slog.Info(`point the store at it with { store: { url: "http://127.0.0.1:8080" } } in config.local.json5`)
}

func CreateEmptyStore() error {
	ctx := context.Background()
	store, err := statstore.Open(ctx, statstore.Config{File: "<dev_state>/mlb_stats.db"})
	if err != nil {
		return err
	}
	defer store.Close()
	return store.EnsureTables(ctx)
}

// the events shown on the yearly review pages, the import run loads these
// into the event dimension
var eventDescriptions = []stats.Event{
	{Name: "Base on Balls", Description: "Times the batter reached first on four balls"},
	{Name: "Batting Average", Description: "Hits divided by at bats"},
	{Name: "Doubles", Description: "Hits on which the batter reached second base"},
	{Name: "Hits", Description: "Times the batter reached base on a fair ball without an error or fielder's choice"},
	{Name: "Home Runs", Description: "Hits on which the batter scored"},
	{Name: "On Base Percentage", Description: "Times on base divided by plate appearances"},
	{Name: "Runs", Description: "Times the player crossed home plate"},
	{Name: "RBI", Description: "Runs batted in"},
	{Name: "Slugging Average", Description: "Total bases divided by at bats"},
	{Name: "Stolen Bases", Description: "Bases taken without the help of a hit, walk or error"},
	{Name: "Strikeouts", Description: "Outs recorded by three strikes"},
	{Name: "Total Bases", Description: "Bases gained on hits"},
	{Name: "Triples", Description: "Hits on which the batter reached third base"},
	{Name: "Complete Games", Description: "Games the starting pitcher finished"},
	{Name: "ERA", Description: "Earned runs allowed per nine innings"},
	{Name: "Games", Description: "Games pitched in"},
	{Name: "Saves", Description: "Games finished by a relief pitcher while protecting a lead"},
	{Name: "Shutouts", Description: "Complete games without allowing a run"},
	{Name: "Winning Percentage", Description: "Wins divided by decisions"},
	{Name: "Wins", Description: "Games won as the pitcher of record"},
}

func WriteEventDescriptions() error {
	path, err := devenv.ResolvePath("<dev_state>/mlb_events.csv")
	if err != nil {
		return err
	}
	_, err = os.Stat(path)
	if err == nil {
		fmt.Println("event descriptions already written at", path)
		return nil
	}
	fmt.Println("writing event descriptions to", path)
	return statcsv.WriteFile(path, stats.EventHeader, eventDescriptions)
}

func PrintConfigLocations() {
	slog.Info("the CLI reads config.json5 (and config.local.json5) from the working directory, telemetry.json5 is searched for from the working directory upwards. both are optional.")
}
