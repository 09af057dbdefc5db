package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddRoute_RequiresNodes(t *testing.T) {
	t.Parallel()

	g := New()
	g.AddNode("a")

	err := g.AddRoute(Route{FromWidget: "a", FromPort: "out", ToWidget: "b", ToPort: "in"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "destination widget not found")

	err = g.AddRoute(Route{FromWidget: "x", FromPort: "out", ToWidget: "a", ToPort: "in"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "source widget not found")
}

func TestAddRoute_RejectsSelfReference(t *testing.T) {
	t.Parallel()

	g := New()
	g.AddNode("a")
	err := g.AddRoute(Route{FromWidget: "a", FromPort: "out", ToWidget: "a", ToPort: "in"})
	assert.Error(t, err)
}

func TestRoutes_FiltersByPortAndKeepsOrder(t *testing.T) {
	t.Parallel()

	g := New()
	for _, id := range []string{"scanner", "tracker", "pantry"} {
		g.AddNode(id)
	}

	require.NoError(t, g.AddRoute(Route{FromWidget: "scanner", FromPort: "prices.recorded", ToWidget: "tracker", ToPort: "prices.add"}))
	require.NoError(t, g.AddRoute(Route{FromWidget: "scanner", FromPort: "prices.recorded", ToWidget: "pantry", ToPort: "prices.observe"}))
	require.NoError(t, g.AddRoute(Route{FromWidget: "scanner", FromPort: "error.message", ToWidget: "pantry", ToPort: "status.set"}))

	routes := g.Routes("scanner", "prices.recorded")
	require.Len(t, routes, 2)
	assert.Equal(t, "tracker", routes[0].ToWidget)
	assert.Equal(t, "pantry", routes[1].ToWidget)

	assert.Len(t, g.Routes("scanner", "error.message"), 1)
	assert.Empty(t, g.Routes("scanner", "nothing.here"))
	assert.Empty(t, g.Routes("ghost", "prices.recorded"))
}

func TestUpstreamDownstream(t *testing.T) {
	t.Parallel()

	g := New()
	for _, id := range []string{"a", "b", "c"} {
		g.AddNode(id)
	}
	require.NoError(t, g.AddRoute(Route{FromWidget: "a", FromPort: "o", ToWidget: "b", ToPort: "i"}))
	require.NoError(t, g.AddRoute(Route{FromWidget: "a", FromPort: "o", ToWidget: "c", ToPort: "i"}))

	down, err := g.Downstream("a")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"b", "c"}, down)

	up, err := g.Upstream("b")
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, up)

	_, err = g.Upstream("ghost")
	assert.Error(t, err)
}

func TestDetectCycles(t *testing.T) {
	t.Parallel()

	g := New()
	for _, id := range []string{"a", "b", "c"} {
		g.AddNode(id)
	}
	require.NoError(t, g.AddRoute(Route{FromWidget: "a", FromPort: "o", ToWidget: "b", ToPort: "i"}))
	require.NoError(t, g.AddRoute(Route{FromWidget: "b", FromPort: "o", ToWidget: "c", ToPort: "i"}))
	require.NoError(t, g.DetectCycles())

	require.NoError(t, g.AddRoute(Route{FromWidget: "c", FromPort: "o", ToWidget: "a", ToPort: "i"}))
	err := g.DetectCycles()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "wiring loop detected")
}
