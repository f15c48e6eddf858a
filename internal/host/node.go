package host

import "github.com/san-kum/controlsim/internal/dynamo"

// Node is an in-memory Transform.
type Node struct {
	Name     string
	position dynamo.Vec3
	euler    dynamo.Vec3
	scale    dynamo.Vec3
}

func NewNode(name string) *Node {
	return &Node{Name: name, scale: dynamo.Vec3{X: 1, Y: 1, Z: 1}}
}

func (n *Node) LocalPosition() dynamo.Vec3      { return n.position }
func (n *Node) SetLocalPosition(p dynamo.Vec3) { n.position = p }
func (n *Node) LocalEuler() dynamo.Vec3         { return n.euler }
func (n *Node) LossyScale() dynamo.Vec3         { return n.scale }
func (n *Node) SetScale(s dynamo.Vec3)          { n.scale = s }

func (n *Node) SetLocalEuler(e dynamo.Vec3) {
	n.euler = dynamo.Vec3{
		X: dynamo.Euler360(e.X),
		Y: dynamo.Euler360(e.Y),
		Z: dynamo.Euler360(e.Z),
	}
}
