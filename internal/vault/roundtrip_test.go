package vault

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/thoreinstein/vaultconfig/internal/logging"
)

// Round trips one data set through every store format, plaintext and
// encrypted, across manager restarts. The data is two levels deep with
// string leaves, the common shape all three formats preserve exactly.
func TestRoundTripAcrossFormats(t *testing.T) {
	data := map[string]any{
		"database": map[string]any{
			"host": "db.example.com",
			"port": "5432",
		},
		"service": map[string]any{
			"name":    "api",
			"timeout": "2.5s",
		},
	}

	for _, formatName := range []string{"toml", "ini", "yaml"} {
		t.Run(formatName, func(t *testing.T) {
			for _, password := range []string{"", "p1"} {
				label := "plaintext"
				if password != "" {
					label = "encrypted"
				}
				t.Run(label, func(t *testing.T) {
					dir := t.TempDir()

					opts := []Option{WithLogger(logging.ForTest(t))}
					if password != "" {
						opts = append(opts, WithPassword(password))
					}

					m1, err := New(dir, formatName, opts...)
					require.NoError(t, err)
					require.NoError(t, m1.AddConfig("svc", data, true))

					m2, err := New(dir, formatName, opts...)
					require.NoError(t, err)

					entry, err := m2.GetConfig("svc")
					require.NoError(t, err)
					require.Equal(t, data, entry.GetAll(false))
				})
			}
		})
	}
}
