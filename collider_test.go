package lastfit

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func unitCube() *Mesh {
	v := []Coord3D{
		{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0},
		{0, 0, 1}, {1, 0, 1}, {1, 1, 1}, {0, 1, 1},
	}
	f := [][3]int32{
		{0, 2, 1}, {0, 3, 2}, // bottom
		{4, 5, 6}, {4, 6, 7}, // top
		{0, 5, 4}, {0, 1, 5}, // front
		{1, 6, 5}, {1, 2, 6}, // right
		{2, 7, 6}, {2, 3, 7}, // back
		{3, 4, 7}, {3, 0, 4}, // left
	}
	return NewMesh(v, f)
}

func TestColliderClosestPointOnFace(t *testing.T) {
	c := NewCollider(unitCube())
	closest, _, dist := c.ClosestPoint(Coord3D{0.5, 0.5, -1})
	assert.InDelta(t, 1.0, dist, 1e-6)
	assert.InDelta(t, 0.0, closest.Z, 1e-6)
}

func TestColliderWindingNumberInsideVsOutside(t *testing.T) {
	c := NewCollider(unitCube())
	inside := c.WindingNumber(Coord3D{0.5, 0.5, 0.5})
	outside := c.WindingNumber(Coord3D{5, 5, 5})
	assert.InDelta(t, 1.0, inside, 1e-3)
	assert.InDelta(t, 0.0, outside, 1e-3)
}

func TestColliderSignedDistanceSign(t *testing.T) {
	c := NewCollider(unitCube())
	assert.Less(t, c.SignedDistance(Coord3D{0.5, 0.5, 0.5}), 0.0)
	assert.Greater(t, c.SignedDistance(Coord3D{5, 5, 5}), 0.0)
}

func TestColliderOccupancy(t *testing.T) {
	c := NewCollider(unitCube())
	assert.True(t, c.Occupancy(Coord3D{0.5, 0.5, 0.5}))
	assert.False(t, c.Occupancy(Coord3D{-1, -1, -1}))
}
