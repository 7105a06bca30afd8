package voronoi

import "github.com/emcleary/voronoi-diagrams/pkg/geom"

// Diagram is a finished Voronoi diagram clipped to Bounds. It is
// immutable and safe for concurrent reads.
type Diagram struct {
	mesh   *mesh
	Bounds geom.Rect
}

// FaceInfo is one cell of the diagram. Polygon lists the cell corners
// counterclockwise with the first point repeated at the end.
type FaceInfo struct {
	SiteID  int
	Site    geom.Point
	Polygon []geom.Point
}

// VertexInfo describes a mesh vertex. Degree counts incident edges,
// border edges included.
type VertexInfo struct {
	ID     int
	Point  geom.Point
	Degree int
	Kind   VertexKind
}

// EdgeInfo is one diagram edge. V0 and V1 index AllVertices; for a
// clipped edge the boundary endpoint's vertex is a VertexBoundary.
type EdgeInfo struct {
	V0, V1    int
	A, B      geom.Point
	Unbounded bool
}

// Faces returns every cell with its closed boundary polygon.
func (d *Diagram) Faces() []FaceInfo {
	out := make([]FaceInfo, 0, len(d.mesh.faces))
	for _, f := range d.mesh.faces {
		poly := make([]geom.Point, 0, len(f.halfEdges)+1)
		he := f.edge
		for {
			poly = append(poly, d.mesh.verts[d.mesh.halves[he].origin].Point)
			he = d.mesh.halves[he].next
			if he == f.edge {
				break
			}
		}
		poly = append(poly, poly[0])
		out = append(out, FaceInfo{
			SiteID:  f.Site.ID,
			Site:    geom.Point{X: f.Site.X, Y: f.Site.Y},
			Polygon: poly,
		})
	}
	return out
}

// Vertices returns the true Voronoi vertices: circle event centers,
// each equidistant from three or more sites. Boundary vertices from
// clipping are excluded; see AllVertices.
func (d *Diagram) Vertices() []VertexInfo {
	return d.vertices(false)
}

// AllVertices returns every mesh vertex including the boundary and
// corner vertices introduced by clipping.
func (d *Diagram) AllVertices() []VertexInfo {
	return d.vertices(true)
}

func (d *Diagram) vertices(all bool) []VertexInfo {
	degree := make([]int, len(d.mesh.verts))
	for _, he := range d.mesh.halves {
		degree[he.origin]++
	}
	var out []VertexInfo
	for i, v := range d.mesh.verts {
		if !all && v.Kind != VertexVoronoi {
			continue
		}
		out = append(out, VertexInfo{ID: i, Point: v.Point, Degree: degree[i], Kind: v.Kind})
	}
	return out
}

// Edges returns the diagram's bisector edges. Border edges along the
// bounding box are not included; they appear only in face polygons.
func (d *Diagram) Edges() []EdgeInfo {
	var out []EdgeInfo
	for i, meta := range d.mesh.meta {
		if meta.border {
			continue
		}
		he := d.mesh.halves[2*i]
		v0 := he.origin
		v1 := d.mesh.dest(2 * i)
		out = append(out, EdgeInfo{
			V0:        v0,
			V1:        v1,
			A:         d.mesh.verts[v0].Point,
			B:         d.mesh.verts[v1].Point,
			Unbounded: meta.unbounded,
		})
	}
	return out
}

// MeshCounts returns the closed mesh's vertex, edge and face counts.
// The outer face is not counted; with it the mesh satisfies
// V - E + F = 2.
func (d *Diagram) MeshCounts() (vertices, edges, faces int) {
	return len(d.mesh.verts), len(d.mesh.halves) / 2, len(d.mesh.faces)
}
