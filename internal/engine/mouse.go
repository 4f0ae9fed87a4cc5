package engine

import (
	"github.com/san-kum/blobsim/internal/physics"
	"gonum.org/v1/gonum/spatial/r3"
)

const (
	MouseRadius = 0.25
	// The mouse collider reaches well past the visible ball.
	MouseColliderRadius = MouseRadius * 6
)

// MouseBall is a kinematic body that follows the pointer and shoves the
// blob's bodies aside.
type MouseBall struct {
	rigid *physics.RigidBody
}

func NewMouseBall(w *physics.World) (*MouseBall, error) {
	rigid := w.CreateRigidBody(physics.KinematicPositionBasedDesc())
	if err := w.CreateCollider(physics.Ball(MouseColliderRadius), rigid); err != nil {
		return nil, err
	}
	return &MouseBall{rigid: rigid}, nil
}

func (m *MouseBall) Update(target r3.Vec) { m.rigid.SetTranslation(target) }
func (m *MouseBall) Position() r3.Vec     { return m.rigid.Translation() }
func (m *MouseBall) Body() *physics.RigidBody {
	return m.rigid
}
