package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMultiURL(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		want    []string
		wantErr bool
	}{
		{
			name: "encoded list",
			url:  "https://op.gg/lol/multisearch/na?summoners=Ana%23NA1%2CBob%23NA1",
			want: []string{"Ana#NA1", "Bob#NA1"},
		},
		{
			name: "plain list with spaces",
			url:  "https://www.op.gg/multisearch/na?summoners=Ana+Banana%23NA1, Bob%23NA1 &region=na",
			want: []string{"Ana Banana#NA1", "Bob#NA1"},
		},
		{
			name: "entries without tags dropped",
			url:  "https://op.gg/lol/multisearch/na?summoners=Ana%23NA1,NoTag,Bob%23NA1",
			want: []string{"Ana#NA1", "Bob#NA1"},
		},
		{
			name:    "missing parameter",
			url:     "https://op.gg/lol/multisearch/na",
			wantErr: true,
		},
		{
			name:    "nothing usable",
			url:     "https://op.gg/lol/multisearch/na?summoners=NoTag,AlsoNoTag",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseMultiURL(tt.url)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
