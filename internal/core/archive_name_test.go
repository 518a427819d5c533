package core_test

import (
	"testing"

	"mhwmm/internal/core"

	"github.com/stretchr/testify/assert"
)

func TestParseArchiveName(t *testing.T) {
	tests := []struct {
		name string
		path string
		want core.ArchiveName
	}{
		{
			name: "nexus download with timestamp",
			path: "/downloads/Better_Lighting-1234-1-2-1700000000.zip",
			want: core.ArchiveName{Title: "Better Lighting", NexusID: "1234", Version: "1.2"},
		},
		{
			name: "nexus download without timestamp",
			path: "Gold Armor-98765-3-0a.zip",
			want: core.ArchiveName{Title: "Gold Armor", NexusID: "98765", Version: "3.0a"},
		},
		{
			name: "dashes in title",
			path: "Stracker-Loader-1982-3-0-1-1650000000.zip",
			want: core.ArchiveName{Title: "Stracker-Loader", NexusID: "1982", Version: "3.0.1"},
		},
		{
			name: "plain name",
			path: "my_cool_mod.zip",
			want: core.ArchiveName{Title: "my cool mod"},
		},
		{
			name: "id without version",
			path: "Mod-12345.zip",
			want: core.ArchiveName{Title: "Mod-12345"},
		},
		{
			name: "only separators",
			path: "___.zip",
			want: core.ArchiveName{Title: "Unnamed Mod"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, core.ParseArchiveName(tt.path))
		})
	}
}
