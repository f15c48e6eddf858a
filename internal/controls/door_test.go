package controls_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/controlsim/internal/controllable"
	"github.com/san-kum/controlsim/internal/controls"
	"github.com/san-kum/controlsim/internal/dynamo"
	"github.com/san-kum/controlsim/internal/host"
)

var _ = Describe("Door", func() {
	var (
		node *host.Node
		cfg  controls.DoorConfig
		door *controls.Door
		rec  *recorder
	)

	BeforeEach(func() {
		node = host.NewNode("door")
		cfg = controls.DefaultDoorConfig()
		cfg.MinimumAngle = -90
		cfg.MaximumAngle = 90
		cfg.ForceShutThresholdAngle = 10
	})

	activate := func() {
		door = controls.NewDoor("door", dynamo.AxisY, node, cfg)
		rec = record(door)
		door.Activate()
	}

	Describe("activation", func() {
		It("starts resting at the minimum limit", func() {
			activate()
			Expect(door.IsResting()).To(BeTrue())
			Expect(door.AtMinLimit()).To(BeTrue())
			Expect(rec.kinds()).To(Equal([]controllable.EventKind{controllable.MinLimitReached}))
		})

		It("measures the angle from the activation pose", func() {
			node.SetLocalEuler(dynamo.Vec3{Y: 170})
			activate()
			node.SetLocalEuler(dynamo.Vec3{Y: 200})
			Expect(door.GetValue()).To(BeNumerically("~", 30, 1e-9))
		})

		It("swings to a configured resting angle", func() {
			cfg.RestingAngle = -30
			activate()
			Expect(door.GetValue()).To(BeNumerically("~", -30, 1e-9))
			Expect(door.IsResting()).To(BeTrue())
		})
	})

	Describe("releasing", func() {
		BeforeEach(func() {
			activate()
			door.Grabbed(grab)
		})

		It("leaves a wide open door in place", func() {
			node.SetLocalEuler(dynamo.Vec3{Y: 95})
			door.Ungrabbed(grab)
			Expect(door.Actuator().Moving()).To(BeFalse())

			frames(door, 300)
			Expect(door.GetValue()).To(BeNumerically("~", 95, 1e-9))
		})

		It("swings a nearly shut door closed", func() {
			door.DragTo(5)
			door.Ungrabbed(grab)
			Expect(door.Actuator().Moving()).To(BeTrue())

			frames(door, 600)
			Expect(door.GetValue()).To(BeNumerically("~", 0, 0.001))
			Expect(door.IsResting()).To(BeTrue())
			Expect(door.AtMinLimit()).To(BeTrue())
		})

		It("stops swinging when grabbed again", func() {
			door.DragTo(8)
			door.Ungrabbed(grab)
			frames(door, 2)

			door.Grabbed(grab)
			Expect(door.Actuator().Moving()).To(BeFalse())
			door.DragTo(-20)
			frames(door, 300)
			Expect(door.GetValue()).To(BeNumerically("~", -20, 1e-9))
		})
	})

	Describe("releasing across the euler wrap", func() {
		BeforeEach(func() {
			node.SetLocalEuler(dynamo.Vec3{Y: 178})
			activate()
			door.Grabbed(grab)
			door.DragTo(5)
			rec.reset()
		})

		It("swings the short way back to rest", func() {
			door.Ungrabbed(grab)
			peak := 0.0
			for i := 0; i < 300; i++ {
				frames(door, 1)
				v := door.GetValue()
				peak = max(peak, v, -v)
			}
			Expect(peak).To(BeNumerically("<=", 5+1e-9))
			Expect(door.GetValue()).To(BeNumerically("~", 0, 0.001))
			Expect(node.LocalEuler().Y).To(BeNumerically("~", 178, 0.001))
			Expect(rec.count(controllable.MaxLimitReached)).To(Equal(0))
		})
	})

	Describe("dragging", func() {
		BeforeEach(func() {
			activate()
			rec.reset()
			door.Grabbed(grab)
		})

		It("clamps to the configured range", func() {
			door.DragTo(120)
			Expect(door.GetValue()).To(BeNumerically("~", 90, 1e-9))
			Expect(door.GetNormalizedValue()).To(BeNumerically("~", 1, 1e-9))
		})

		It("reports the maximum near either extreme", func() {
			door.DragTo(89.5)
			Expect(door.AtMaxLimit()).To(BeTrue())
			door.DragTo(45)
			Expect(door.AtMaxLimit()).To(BeFalse())
			door.DragTo(-89.5)
			Expect(door.AtMaxLimit()).To(BeTrue())

			Expect(rec.kinds()).To(Equal([]controllable.EventKind{
				controllable.MinLimitExited,
				controllable.MaxLimitReached,
				controllable.MaxLimitExited,
				controllable.MaxLimitReached,
			}))
		})

		It("carries the interactor on events", func() {
			door.DragTo(10)
			Expect(rec.events[0].Interactor).To(Equal("right-hand"))
			Expect(rec.events[0].Name).To(Equal("door"))
			Expect(rec.events[0].Sender).To(Equal(door.ID()))
		})
	})

	Describe("locking", func() {
		BeforeEach(func() {
			cfg.IsLocked = true
			activate()
		})

		It("holds a resting door shut", func() {
			door.Grabbed(grab)
			lo, hi := door.Limits()
			Expect(lo).To(Equal(hi))

			door.DragTo(45)
			Expect(door.GetValue()).To(BeNumerically("~", 0, 1e-9))
		})

		It("frees the door once unlocked", func() {
			door.Grabbed(grab)
			door.SetLocked(false)
			door.DragTo(45)
			Expect(door.GetValue()).To(BeNumerically("~", 45, 1e-9))
		})

		It("restores the full range once a locked door is pushed off rest", func() {
			door.Grabbed(grab)
			lo, hi := door.Limits()
			Expect(lo).To(Equal(hi))

			node.SetLocalEuler(dynamo.Vec3{Y: 40})
			frames(door, 1)
			lo, hi = door.Limits()
			Expect(lo).To(Equal(-90.0))
			Expect(hi).To(Equal(90.0))
		})

		It("does not collapse the range of an open door", func() {
			door.Grabbed(grab)
			door.SetLocked(false)
			door.DragTo(30)
			door.SetLocked(true)
			lo, hi := door.Limits()
			Expect(lo).To(Equal(-90.0))
			Expect(hi).To(Equal(90.0))
		})
	})

	Describe("resting angle setter", func() {
		BeforeEach(activate)

		It("is resting immediately after a forced set", func() {
			door.SetRestingAngle(30, true)
			Expect(door.IsResting()).To(BeTrue())
			Expect(door.GetValue()).To(BeNumerically("~", 30, 1e-9))
		})

		It("clamps into range", func() {
			door.SetRestingAngle(150, true)
			Expect(door.Config().RestingAngle).To(Equal(90.0))
		})

		It("leaves an open door where it is unless forced", func() {
			door.Grabbed(grab)
			door.DragTo(60)
			door.SetRestingAngle(20, false)
			Expect(door.GetValue()).To(BeNumerically("~", 60, 1e-9))
			Expect(door.Config().RestingAngle).To(Equal(20.0))
		})
	})

	It("rejects an inverted range", func() {
		cfg.MinimumAngle, cfg.MaximumAngle = 10, -10
		Expect(cfg.Validate()).To(MatchError(dynamo.ErrInvalidConfig))
	})
})
