package scene

import "fmt"

// Scene is the scene graph store: the node arena plus scene-wide properties.
type Scene struct {
	*Graph

	Background  *EnvironmentTexture
	Environment *EnvironmentTexture
	Lights      []*DirectionalLight
}

func New() *Scene {
	return &Scene{Graph: NewGraph()}
}

// AddNode inserts node under parent.
func (s *Scene) AddNode(parent NodeID, node Node) (NodeID, error) {
	return s.Add(parent, node)
}

func (s *Scene) AddLight(l *DirectionalLight) {
	s.Lights = append(s.Lights, l)
}

// SetEnvironment uses tex both as the visible background and as the lighting
// environment of standard materials.
func (s *Scene) SetEnvironment(tex *EnvironmentTexture) {
	s.Background = tex
	s.Environment = tex
}

// UpdateAllMaterials sets the environment intensity of every standard-lit
// mesh and makes it cast and receive shadows. Running it again with the
// same intensity changes nothing.
func (s *Scene) UpdateAllMaterials(envMapIntensity float32) {
	s.Traverse(func(_ NodeID, n *Node) {
		if n.Geometry == nil || !n.Material.IsStandard() {
			return
		}
		n.Material.EnvMapIntensity = envMapIntensity
		n.CastShadow = true
		n.ReceiveShadow = true
	})
}

// Subtree is a detached hierarchy, typically a loaded model, waiting to be
// grafted into a scene. Nodes[0] is the single root; every other entry's
// Parent indexes an earlier entry.
type Subtree struct {
	Nodes []SubtreeNode
}

type SubtreeNode struct {
	Node   Node
	Parent int
}

// Graft inserts the subtree under parent and returns the id of its root.
func (s *Scene) Graft(parent NodeID, st *Subtree) (NodeID, error) {
	if st == nil || len(st.Nodes) == 0 {
		return Nil, fmt.Errorf("graft: empty subtree")
	}
	ids := make([]NodeID, len(st.Nodes))
	for i, sn := range st.Nodes {
		p := parent
		if i > 0 {
			if sn.Parent < 0 || sn.Parent >= i {
				return Nil, fmt.Errorf("graft: node %d has invalid parent %d", i, sn.Parent)
			}
			p = ids[sn.Parent]
		}
		id, err := s.Add(p, sn.Node)
		if err != nil {
			return Nil, fmt.Errorf("graft node %q: %w", sn.Node.Name, err)
		}
		ids[i] = id
	}
	return ids[0], nil
}
