package cmd

import (
	"bytes"
	"strings"
	"testing"

	"github.com/Karim-Chrif/simple-http-server/pkg/config"
	"github.com/Karim-Chrif/simple-http-server/pkg/version"
)

func TestVersionFlag(t *testing.T) {
	var buf bytes.Buffer

	rootCmd := NewRootCmd()
	rootCmd.SetOut(&buf)
	rootCmd.SetArgs([]string{"--version"})

	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("Execute returned an error: %v", err)
	}

	output := buf.String()
	if !strings.Contains(output, version.AppName) {
		t.Errorf("Version output should contain the app name, got: %s", output)
	}
	if !strings.Contains(output, version.Version) {
		t.Errorf("Version output should contain the version, got: %s", output)
	}
}

func TestFlagOverridesConfig(t *testing.T) {
	rootCmd := NewRootCmd()
	rootCmd.SetOut(new(bytes.Buffer))
	// --version short-circuits RunE before the server starts, so the
	// command returns while still exercising config loading
	rootCmd.SetArgs([]string{"--version", "--host", "127.0.0.1", "--port", "9999"})

	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("Execute returned an error: %v", err)
	}

	if cfg.Server.Host != "127.0.0.1" {
		t.Errorf("Expected the --host flag to override the config, got '%s'", cfg.Server.Host)
	}
	if cfg.Server.Port != 9999 {
		t.Errorf("Expected the --port flag to override the config, got %d", cfg.Server.Port)
	}
}

func TestInvalidPortRejected(t *testing.T) {
	rootCmd := NewRootCmd()
	rootCmd.SetOut(new(bytes.Buffer))
	rootCmd.SetErr(new(bytes.Buffer))
	rootCmd.SetArgs([]string{"--version", "--port", "99999"})

	if err := rootCmd.Execute(); err == nil {
		t.Errorf("Expected an error for an out-of-range port")
	}
}

func TestAuthorizerFromConfig(t *testing.T) {
	// Mode none yields no authorizer at all
	c := config.LoadDefault()
	a, err := authorizerFromConfig(c)
	if err != nil {
		t.Fatalf("authorizerFromConfig returned an error: %v", err)
	}
	if a != nil {
		t.Errorf("Expected no authorizer for mode 'none'")
	}

	// Header mode
	c.Auth.Mode = config.AuthModeHeader
	a, err = authorizerFromConfig(c)
	if err != nil {
		t.Fatalf("authorizerFromConfig returned an error: %v", err)
	}
	if a == nil {
		t.Fatalf("Expected an authorizer for mode 'header'")
	}

	// Token mode
	c.Auth.Mode = config.AuthModeToken
	c.Auth.Token = "abc"
	a, err = authorizerFromConfig(c)
	if err != nil {
		t.Fatalf("authorizerFromConfig returned an error: %v", err)
	}
	if a == nil {
		t.Fatalf("Expected an authorizer for mode 'token'")
	}

	// Unknown mode is an error
	c.Auth.Mode = "certificates"
	if _, err := authorizerFromConfig(c); err == nil {
		t.Errorf("Expected an error for an unknown auth mode")
	}
}

func TestDemoRoutes(t *testing.T) {
	routes := demoRoutes()

	if len(routes) != 2 {
		t.Fatalf("Expected 2 demo routes, got %d", len(routes))
	}

	resp := routes[0].Handler()
	if resp.StatusCode != 200 {
		t.Errorf("Expected the root route to answer 200, got %d", resp.StatusCode)
	}

	body, ok := resp.Body.(map[string]string)
	if !ok {
		t.Fatalf("Expected a string map body, got %T", resp.Body)
	}
	if body["message"] != "Hello, world!" {
		t.Errorf("Expected hello-world message, got '%s'", body["message"])
	}
}
