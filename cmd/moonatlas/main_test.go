package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

func TestIngestCommandArguments(t *testing.T) {
	app := &cli.App{
		Name: "moonatlas",
		Commands: []*cli.Command{
			{
				Name:   "ingest",
				Action: ingestCommand,
			},
		},
	}

	t.Run("missing table argument fails", func(t *testing.T) {
		err := app.Run([]string{"moonatlas", "ingest"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "TSV")
	})

	t.Run("too many arguments fails", func(t *testing.T) {
		err := app.Run([]string{"moonatlas", "ingest", "a.tsv", "b.tsv"})
		require.Error(t, err)
	})
}

func TestSetupLogger(t *testing.T) {
	newApp := func() *cli.App {
		return &cli.App{
			Name: "test",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:    "log-level",
					Aliases: []string{"l"},
					Value:   "info",
				},
			},
			Before: setupLogger,
			Action: func(c *cli.Context) error { return nil },
		}
	}

	t.Run("valid log levels", func(t *testing.T) {
		for _, level := range []string{"debug", "info", "warn", "error", "WARN", "Debug"} {
			t.Run(level, func(t *testing.T) {
				require.NoError(t, newApp().Run([]string{"test", "--log-level", level}))
			})
		}
	})

	t.Run("invalid log level returns error", func(t *testing.T) {
		err := newApp().Run([]string{"test", "--log-level", "loud"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid log level")
	})

	t.Run("alias -l works", func(t *testing.T) {
		require.NoError(t, newApp().Run([]string{"test", "-l", "debug"}))
	})
}

func TestIndent(t *testing.T) {
	assert.Equal(t, "  a\n  b", indent("a\nb", "  "))
}
