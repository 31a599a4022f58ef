package manifold

import "github.com/chazu/structview/pkg/vec"

// DefaultSegments is the minimum number of sides for struts and joints.
const DefaultSegments = 16

// vertexNormals averages the face normals of the triangles incident on each
// vertex. Larger triangles weigh more.
func vertexNormals(vertices []float32, indices []uint32) []float32 {
	at := func(i uint32) vec.Vec3 {
		return vec.New(float64(vertices[i*3]), float64(vertices[i*3+1]), float64(vertices[i*3+2]))
	}

	acc := make([]vec.Vec3, len(vertices)/3)
	for t := 0; t+2 < len(indices); t += 3 {
		i0, i1, i2 := indices[t], indices[t+1], indices[t+2]
		a := at(i0)
		n := at(i1).Sub(a).Cross(at(i2).Sub(a))
		for _, idx := range []uint32{i0, i1, i2} {
			acc[idx] = acc[idx].Add(n)
		}
	}

	normals := make([]float32, len(vertices))
	for i, n := range acc {
		if n.Length() < vec.LengthEpsilon {
			continue
		}
		n = n.Normalize()
		normals[i*3+0] = float32(n.X)
		normals[i*3+1] = float32(n.Y)
		normals[i*3+2] = float32(n.Z)
	}
	return normals
}
