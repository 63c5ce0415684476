package testutil

import (
	"context"
	"fmt"
	"testing"

	devenv "mlbstats/dev/env"
	"mlbstats/lib/statstore"
	"mlbstats/lib/telemetry"
)

type ServiceParams struct {
	Name string
	// if unspecified, it will use `:memory:`
	DbPath string
}

type ServiceResult struct {
	Store statstore.Store
}

func SetupService(t testing.TB, params ServiceParams) (ServiceResult, func()) {
	cleanup := telemetry.SetupForTesting(t, fmt.Sprintf("test:%s", params.Name))

	dbpath := ":memory:"
	if params.DbPath != "" && params.DbPath != ":memory:" {
		var err error
		dbpath, err = devenv.ResolvePath(params.DbPath)
		if err != nil {
			t.Fatal(err)
		}
	}
	store, err := statstore.Open(context.Background(), statstore.Config{File: dbpath})
	if err != nil {
		t.Fatal(err)
	}

	return ServiceResult{Store: store}, func() {
		store.Close()
		cleanup()
	}
}
