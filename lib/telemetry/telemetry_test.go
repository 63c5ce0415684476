package telemetry

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSetupFromEnvWithoutConfig(t *testing.T) {
	dir := t.TempDir()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	err = os.Chdir(dir)
	if err != nil {
		t.Fatal(err)
	}
	defer os.Chdir(wd)

	tel, err := SetupFromEnv(context.Background(), "test:telemetry")
	require.NoError(t, err)
	require.Nil(t, tel.TracerProvider)
	require.Nil(t, tel.MeterProvider)
	require.NoError(t, tel.Shutdown(context.Background()))
}

func TestSetupFromEnvInvalidConfig(t *testing.T) {
	dir := t.TempDir()
	err := os.WriteFile(filepath.Join(dir, "telemetry.json5"), []byte(`{ otlp: `), 0600)
	if err != nil {
		t.Fatal(err)
	}
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	err = os.Chdir(dir)
	if err != nil {
		t.Fatal(err)
	}
	defer os.Chdir(wd)

	_, err = SetupFromEnv(context.Background(), "test:telemetry")
	require.Error(t, err)
}

func TestSetupWithoutEndpoints(t *testing.T) {
	tel, err := Setup(context.Background(), "test:telemetry", Config{})
	require.NoError(t, err)
	require.Nil(t, tel.TracerProvider)
	require.Nil(t, tel.MeterProvider)
}

func TestOtlpTransport(t *testing.T) {
	kind, endpoint := OtlpConnConfig{
		GrpcEndpoint: "http://localhost:4317",
		HttpEndpoint: "http://localhost:4318",
	}.transport()
	require.Equal(t, "grpc", kind)
	require.Equal(t, "http://localhost:4317", endpoint)

	kind, endpoint = OtlpConnConfig{HttpEndpoint: "http://localhost:4318"}.transport()
	require.Equal(t, "http", kind)
	require.Equal(t, "http://localhost:4318", endpoint)
}
