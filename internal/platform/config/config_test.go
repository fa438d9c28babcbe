package config_test

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"anchor/internal/platform/config"
)

type ConfigSuite struct {
	suite.Suite
}

func TestConfigSuite(t *testing.T) {
	suite.Run(t, new(ConfigSuite))
}

func (s *ConfigSuite) TestDefault() {
	cfg := config.Default()
	s.Equal("info", cfg.LogLevel)
	s.Equal("text", cfg.LogFormat)
	s.Equal(10*time.Second, cfg.AdapterTimeout)
	s.Equal(8, cfg.Workers)
	s.Empty(cfg.OpsAddr)
	s.Empty(cfg.PostgresDSN)
	s.Equal(90, cfg.Company.AutoAcceptThreshold)
	s.InDelta(0.5, cfg.Email.MinFinderConfidence, 1e-9)
}

func (s *ConfigSuite) TestLoad() {
	s.Run("yaml overrides defaults and keeps the rest", func() {
		path := s.T().TempDir() + "/config.yaml"
		s.Require().NoError(os.WriteFile(path, []byte(
			"log_level: debug\n"+
				"workers: 4\n"+
				"company:\n"+
				"  auto_accept_threshold: 95\n"), 0o644))

		cfg, err := config.Load(path)
		s.Require().NoError(err)
		s.Equal("debug", cfg.LogLevel)
		s.Equal(4, cfg.Workers)
		s.Equal(95, cfg.Company.AutoAcceptThreshold)
		s.Equal("text", cfg.LogFormat)
	})

	s.Run("empty path is just defaults", func() {
		cfg, err := config.Load("")
		s.Require().NoError(err)
		s.Equal(config.Default(), cfg)
	})

	s.Run("missing file is an error", func() {
		_, err := config.Load("/nonexistent/config.yaml")
		s.Error(err)
	})

	s.Run("malformed yaml is an error", func() {
		path := s.T().TempDir() + "/bad.yaml"
		s.Require().NoError(os.WriteFile(path, []byte("log_level: [unclosed"), 0o644))
		_, err := config.Load(path)
		s.Error(err)
	})
}

func (s *ConfigSuite) TestEnvOverrides() {
	s.T().Setenv("ANCHOR_LOG_LEVEL", "warn")
	s.T().Setenv("ANCHOR_OPS_ADDR", ":9090")
	s.T().Setenv("ANCHOR_WORKERS", "16")
	s.T().Setenv("ANCHOR_ADAPTER_TIMEOUT", "30s")

	cfg := config.FromEnv()
	s.Equal("warn", cfg.LogLevel)
	s.Equal(":9090", cfg.OpsAddr)
	s.Equal(16, cfg.Workers)
	s.Equal(30*time.Second, cfg.AdapterTimeout)
}

func (s *ConfigSuite) TestEnvIgnoresGarbage() {
	s.T().Setenv("ANCHOR_WORKERS", "not-a-number")
	s.T().Setenv("ANCHOR_ADAPTER_TIMEOUT", "-5s")

	cfg := config.FromEnv()
	s.Equal(8, cfg.Workers)
	s.Equal(10*time.Second, cfg.AdapterTimeout)
}
