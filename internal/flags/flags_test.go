package flags

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRegistry_Enabled(t *testing.T) {
	tests := []struct {
		name     string
		registry *Registry
		flag     string
		expected bool
	}{
		{
			name:     "default on",
			registry: New(nil),
			flag:     FlagMouse,
			expected: true,
		},
		{
			name:     "default off",
			registry: New(nil),
			flag:     FlagStartInPreview,
			expected: false,
		},
		{
			name:     "override disables",
			registry: New(map[string]bool{FlagTransitions: false}),
			flag:     FlagTransitions,
			expected: false,
		},
		{
			name:     "override enables",
			registry: New(map[string]bool{FlagStartInPreview: true}),
			flag:     FlagStartInPreview,
			expected: true,
		},
		{
			name:     "unknown flag returns false",
			registry: New(nil),
			flag:     "unknown-flag",
			expected: false,
		},
		{
			name:     "nil registry returns false",
			registry: nil,
			flag:     FlagMouse,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, tt.registry.Enabled(tt.flag))
		})
	}
}

func TestRegistry_All(t *testing.T) {
	require.Equal(t, Defaults, New(nil).All())
	require.Equal(t, map[string]bool{}, (*Registry)(nil).All())

	all := New(map[string]bool{FlagMouse: false}).All()
	require.False(t, all[FlagMouse])
	require.True(t, all[FlagTransitions])
}

func TestRegistry_All_ReturnsCopy(t *testing.T) {
	r := New(nil)

	copied := r.All()
	copied[FlagMouse] = false
	copied["new-flag"] = true

	require.True(t, r.Enabled(FlagMouse))
	require.False(t, r.Enabled("new-flag"))
}

func TestNew_DoesNotMutateDefaults(t *testing.T) {
	New(map[string]bool{FlagMouse: false})
	require.True(t, Defaults[FlagMouse])
}

func TestValidate(t *testing.T) {
	require.NoError(t, Validate(nil))
	require.NoError(t, Validate(map[string]bool{FlagMouse: false}))

	err := Validate(map[string]bool{"zoom": true, "beep": true, FlagMouse: true})
	require.Error(t, err)
	require.Contains(t, err.Error(), "beep, zoom")
	require.Contains(t, err.Error(), FlagTransitions)
}
