package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matsstaff/CDTV-PS2Mouse-Joy/cdtv"
)

func TestResolveCode(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		want    cdtv.Code
		wantErr bool
	}{
		{"named button", "play", cdtv.KeyPlayPause, false},
		{"named digit", "5", cdtv.Key5, false},
		{"case folded", "POWER", cdtv.KeyPower, false},
		{"hex code", "0x4a1", cdtv.Code(0x4a1), false},
		{"decimal code", "33", cdtv.Code(33), false},
		{"too wide", "0x1000", 0, true},
		{"unknown name", "bogus", 0, true},
		{"empty", "", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := resolveCode(tt.key)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
