// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package scene

import (
	"errors"
	"fmt"

	"github.com/relabs-tech/arenafit/internal/geom"
)

// ErrInvalidPose is returned by the node setters for non-finite input.
var ErrInvalidPose = errors.New("invalid pose")

// Node is a transform in the scene graph. A node owns its local
// position, rotation and scale; it points at its parent but does not own
// it. The Scene owns the node set.
type Node struct {
	Name string

	position geom.Vec3
	rotation geom.Quat
	scale    geom.Vec3

	parent   *Node
	children []*Node

	world geom.Mat4
}

// NewNode returns a node at the origin with identity rotation and unit scale.
func NewNode(name string) *Node {
	n := &Node{
		Name:     name,
		rotation: geom.QuatIdentity,
		scale:    geom.Vec3{1, 1, 1},
	}
	n.world = n.Local()
	return n
}

func (n *Node) Position() geom.Vec3 { return n.position }
func (n *Node) Rotation() geom.Quat { return n.rotation }
func (n *Node) Scale() geom.Vec3    { return n.scale }
func (n *Node) Parent() *Node       { return n.parent }

// SetPosition replaces the local position.
func (n *Node) SetPosition(p geom.Vec3) error {
	if !p.IsFinite() {
		return fmt.Errorf("%s position %v: %w", n.Name, p, ErrInvalidPose)
	}
	n.position = p
	return nil
}

// SetRotation replaces the local rotation. The quaternion is stored
// normalized; a zero quaternion is rejected.
func (n *Node) SetRotation(q geom.Quat) error {
	if !q.IsFinite() || q.Len() < 1e-9 {
		return fmt.Errorf("%s rotation %v: %w", n.Name, q, ErrInvalidPose)
	}
	n.rotation = q.Normalize()
	return nil
}

// SetScale replaces the local scale.
func (n *Node) SetScale(s geom.Vec3) error {
	if !s.IsFinite() {
		return fmt.Errorf("%s scale %v: %w", n.Name, s, ErrInvalidPose)
	}
	n.scale = s
	return nil
}

// Euler returns the local rotation as pitch/yaw/roll degrees.
func (n *Node) Euler() geom.Euler {
	return n.rotation.Euler()
}

// SetEuler stores the rotation described by e.
func (n *Node) SetEuler(e geom.Euler) error {
	return n.SetRotation(geom.FromEuler(e))
}

// AddChild attaches c under n, detaching it from any previous parent.
func (n *Node) AddChild(c *Node) {
	if c.parent != nil {
		c.parent.removeChild(c)
	}
	c.parent = n
	n.children = append(n.children, c)
}

func (n *Node) removeChild(c *Node) {
	for i, ch := range n.children {
		if ch == c {
			n.children = append(n.children[:i], n.children[i+1:]...)
			return
		}
	}
}

// Children returns the direct children. The slice must not be modified.
func (n *Node) Children() []*Node { return n.children }

// Local is translate × rotate × scale of this node alone.
func (n *Node) Local() geom.Mat4 {
	return geom.TRS(n.position, n.rotation, n.scale)
}

// ComposeWithParent computes world = parent.world ∘ local from the
// current local values along the whole chain.
func (n *Node) ComposeWithParent() geom.Mat4 {
	if n.parent == nil {
		return n.Local()
	}
	return geom.Mat4Mul(n.parent.ComposeWithParent(), n.Local())
}

// Update recomputes the cached world matrix of n and every descendant.
func (n *Node) Update() {
	n.world = n.ComposeWithParent()
	for _, c := range n.children {
		c.updateFrom(n.world)
	}
}

func (n *Node) updateFrom(parentWorld geom.Mat4) {
	n.world = geom.Mat4Mul(parentWorld, n.Local())
	for _, c := range n.children {
		c.updateFrom(n.world)
	}
}

// World returns the world matrix cached by the last Update.
func (n *Node) World() geom.Mat4 { return n.world }
