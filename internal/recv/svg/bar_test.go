package svg

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBarsRendersEveryBucket(t *testing.T) {
	labels := []string{"Current", "0-30", "31-60", "61-90", "90+"}
	html, err := Bars(720, 240, []float64{100, 250.5, -40, 0, 900}, labels, BarOpts{Title: "Receivables"})
	require.NoError(t, err)

	out := string(html)
	require.True(t, strings.HasPrefix(out, "<svg"))
	require.Contains(t, out, "Receivables")
	for _, label := range labels {
		require.Contains(t, out, label)
	}
	require.Equal(t, 5, strings.Count(out, "<rect"))
}

func TestBarsRejectsMismatchedInput(t *testing.T) {
	_, err := Bars(720, 240, nil, nil, BarOpts{})
	require.Error(t, err)

	_, err = Bars(720, 240, []float64{1, 2}, []string{"only"}, BarOpts{})
	require.Error(t, err)
}

func TestBarsDefaultsViewport(t *testing.T) {
	html, err := Bars(0, 0, []float64{5}, []string{"Current"}, BarOpts{})
	require.NoError(t, err)
	require.Contains(t, string(html), "viewBox=\"0 0 720 240\"")
}
