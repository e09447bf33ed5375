package apiurl

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		name    string
		signals Signals
		want    string
	}{
		{
			name:    "configured URL wins",
			signals: Signals{ConfiguredURL: "https://staging.vibeflo.app", Hostname: "vibeflo.app"},
			want:    "https://staging.vibeflo.app",
		},
		{
			name:    "configured URL trailing /api stripped",
			signals: Signals{ConfiguredURL: "https://staging.vibeflo.app/api"},
			want:    "https://staging.vibeflo.app",
		},
		{
			name:    "configured URL trailing slash stripped",
			signals: Signals{ConfiguredURL: "https://staging.vibeflo.app/api/"},
			want:    "https://staging.vibeflo.app",
		},
		{
			name:    "production hostname",
			signals: Signals{Hostname: "vibeflo.app"},
			want:    ProductionURL,
		},
		{
			name:    "production subdomain",
			signals: Signals{Hostname: "www.vibeflo.app"},
			want:    ProductionURL,
		},
		{
			name:    "production flag without hostname",
			signals: Signals{Production: true},
			want:    ProductionURL,
		},
		{
			name:    "development default",
			signals: Signals{Hostname: "localhost"},
			want:    DevelopmentURL,
		},
		{
			name:    "unrelated host is not production",
			signals: Signals{Hostname: "evilvibeflo.app.example.com"},
			want:    DevelopmentURL,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Resolve(tt.signals).BaseURL)
		})
	}
}

func TestNormalizePath(t *testing.T) {
	dev := Resolve(Signals{Hostname: "localhost"})
	prod := Resolve(Signals{Hostname: "vibeflo.app"})

	tests := []struct {
		name      string
		endpoints Endpoints
		path      string
		want      string
	}{
		{"dev plain path gains api prefix", dev, "/pomodoro/stats", "/api/pomodoro/stats"},
		{"dev missing leading slash", dev, "pomodoro/sessions", "/api/pomodoro/sessions"},
		{"dev already prefixed", dev, "/api/pomodoro/stats", "/api/pomodoro/stats"},
		{"dev auth route unprefixed", dev, "/auth/login", "/auth/login"},
		{"dev bare auth route", dev, "auth", "/auth"},
		{"prod plain path gains api prefix", prod, "/pomodoro/stats", "/api/pomodoro/stats"},
		{"prod auth route gains api prefix", prod, "/auth/login", "/api/auth/login"},
		{"prod already prefixed", prod, "/api/themes", "/api/themes"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.endpoints.NormalizePath(tt.path))
		})
	}
}

func TestNormalizePathDeterministic(t *testing.T) {
	e := Resolve(Signals{Hostname: "localhost"})
	first := e.NormalizePath("/pomodoro/stats")
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, e.NormalizePath("/pomodoro/stats"))
	}
}

func TestURL(t *testing.T) {
	e := Resolve(Signals{ConfiguredURL: "http://127.0.0.1:7777"})
	assert.Equal(t, "http://127.0.0.1:7777/api/pomodoro/sessions", e.URL("/pomodoro/sessions"))
}
