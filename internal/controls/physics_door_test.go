package controls_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/controlsim/internal/controllable"
	"github.com/san-kum/controlsim/internal/controls"
	"github.com/san-kum/controlsim/internal/dynamo"
	"github.com/san-kum/controlsim/internal/host"
	"github.com/san-kum/controlsim/internal/integrators"
	"github.com/san-kum/controlsim/internal/physics"
)

var _ = Describe("PhysicsDoor", func() {
	var (
		node  *host.Node
		hinge *physics.Hinge
		cfg   controls.PhysicsDoorConfig
		door  *controls.PhysicsDoor
		rec   *recorder
	)

	BeforeEach(func() {
		node = host.NewNode("door")
		hinge = physics.NewHinge(node, dynamo.AxisY, integrators.NewRK4())
		cfg = controls.DefaultPhysicsDoorConfig()
		cfg.MinimumAngle = -90
		cfg.MaximumAngle = 90
	})

	activate := func() {
		door = controls.NewPhysicsDoor("door", dynamo.AxisY, node, hinge, hinge, cfg)
		rec = record(door)
		door.Activate()
	}

	run := func(n int) { frames(door, n, hinge.Step) }

	It("mirrors the angle limits onto the joint", func() {
		activate()
		lo, hi := hinge.Limits()
		Expect(lo).To(Equal(-90.0))
		Expect(hi).To(Equal(90.0))
	})

	Describe("spring", func() {
		It("pulls a door released inside the force-shut band back to rest", func() {
			cfg.ForceShutThresholdAngle = 30
			activate()
			hinge.SetAngle(20)

			run(180)
			Expect(door.GetValue()).To(BeNumerically("~", 0, 1))
			Expect(door.IsResting()).To(BeTrue())
			Expect(door.AtMinLimit()).To(BeTrue())
		})

		It("leaves a door released outside the band", func() {
			cfg.ForceShutThresholdAngle = 30
			activate()
			hinge.SetAngle(60)

			run(60)
			Expect(door.Actuator().SpringEngaged()).To(BeFalse())
			Expect(door.GetValue()).To(BeNumerically("~", 60, 1e-6))
		})

		It("engages while touched or grabbed", func() {
			activate()
			hinge.SetAngle(60)
			run(1)
			Expect(door.Actuator().SpringEngaged()).To(BeFalse())

			door.Touched(hand)
			Expect(door.Actuator().SpringEngaged()).To(BeTrue())
			door.Untouched(hand)
			run(1)
			Expect(door.Actuator().SpringEngaged()).To(BeFalse())

			door.Grabbed(grab)
			run(1)
			Expect(door.Actuator().SpringEngaged()).To(BeTrue())
			s, _ := hinge.Spring()
			Expect(s).To(Equal(host.Spring{Target: 0, Stiffness: 100, Damper: 10}))
		})

		It("seeks a new resting angle and settles there", func() {
			activate()
			door.SetRestingAngle(30)
			run(1)
			Expect(door.Seeking()).To(BeTrue())

			run(240)
			Expect(door.IsResting()).To(BeTrue())
			Expect(door.Seeking()).To(BeFalse())
			Expect(door.GetValue()).To(BeNumerically("~", 30, 1))
		})
	})

	Describe("lock", func() {
		It("freezes rotation on activation and restores it when unlocked", func() {
			hinge.SetConstraints(host.FreezePosition)
			cfg.IsLocked = true
			activate()
			Expect(hinge.Constraints()).To(Equal(host.FreezeRotation))

			door.Grabbed(grab)
			door.DragTo(45)
			Expect(door.GetValue()).To(BeNumerically("~", 0, 1e-9))

			door.SetLocked(false)
			run(1)
			Expect(hinge.Constraints()).To(Equal(host.FreezePosition))

			door.DragTo(45)
			Expect(door.GetValue()).To(BeNumerically("~", 45, 1e-9))
		})

		It("acts on touch without waiting for the frame", func() {
			activate()
			door.SetLocked(true)
			door.Touched(hand)
			Expect(hinge.Constraints()).To(Equal(host.FreezeRotation))
		})
	})

	Describe("events", func() {
		BeforeEach(func() {
			activate()
			rec.reset()
		})

		It("stays quiet while the door is still", func() {
			run(30)
			Expect(rec.events).To(BeEmpty())
		})

		It("reports the maximum when swung to an extreme", func() {
			door.Grabbed(grab)
			door.DragTo(89.5)
			frames(door, 1)
			Expect(door.AtMaxLimit()).To(BeTrue())
			Expect(door.AtMinLimit()).To(BeFalse())
			Expect(rec.count(controllable.MaxLimitReached)).To(Equal(1))
		})

		It("emits once per frame the value moved", func() {
			door.Grabbed(grab)
			door.DragTo(10)
			frames(door, 1)
			door.DragTo(20)
			frames(door, 1)
			Expect(rec.count(controllable.ValueChanged)).To(Equal(2))
		})
	})

	Describe("reactivation", func() {
		It("re-bases the joint on the new activation pose", func() {
			cfg.ForceShutThresholdAngle = 10
			activate()
			door.Grabbed(grab)
			door.DragTo(40)
			door.Ungrabbed(grab)
			frames(door, 1)
			run(50)
			Expect(door.GetValue()).To(BeNumerically("~", 40, 1e-6))

			door.Deactivate()
			door.Activate()
			Expect(door.GetValue()).To(BeNumerically("~", 0, 1e-9))
			Expect(hinge.Angle()).To(BeNumerically("~", 0, 1e-9))

			door.Touched(hand)
			door.Untouched(hand)
			run(500)
			Expect(door.GetValue()).To(BeNumerically("~", 0, 1))
			Expect(door.IsResting()).To(BeTrue())
			lo, hi := hinge.Limits()
			Expect(door.GetValue()).To(And(BeNumerically(">=", lo), BeNumerically("<=", hi)))
		})
	})

	It("switches drag with friction overrides", func() {
		cfg.UseFrictionOverrides = true
		cfg.GrabbedFriction = 5
		cfg.ReleasedFriction = 2
		activate()

		door.Grabbed(grab)
		Expect(hinge.Drag()).To(Equal(5.0))
		door.Ungrabbed(grab)
		Expect(hinge.Drag()).To(Equal(2.0))
	})

	It("tolerates a missing joint and body", func() {
		door = controls.NewPhysicsDoor("bare", dynamo.AxisY, node, nil, nil, cfg)
		Expect(func() {
			door.Activate()
			door.Touched(hand)
			door.Grabbed(grab)
			door.DragTo(30)
			door.Update(dt)
			door.Ungrabbed(grab)
			door.Deactivate()
		}).NotTo(Panic())
	})
})
