package controls_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/controlsim/internal/controllable"
	"github.com/san-kum/controlsim/internal/controls"
	"github.com/san-kum/controlsim/internal/dynamo"
	"github.com/san-kum/controlsim/internal/host"
)

var _ = Describe("Slider", func() {
	var (
		node   *host.Node
		cfg    controls.SliderConfig
		slider *controls.Slider
		rec    *recorder
	)

	BeforeEach(func() {
		node = host.NewNode("slider")
		cfg = controls.DefaultSliderConfig()
	})

	activate := func() {
		slider = controls.NewSlider("slider", dynamo.AxisX, node, cfg)
		rec = record(slider)
		slider.Activate()
	}

	Describe("step values", func() {
		BeforeEach(activate)

		It("rounds to the nearest grid point", func() {
			Expect(slider.StepValue(0.027)).To(BeNumerically("~", 0.3, 1e-9))
			Expect(slider.StepValue(0.024)).To(BeNumerically("~", 0.2, 1e-9))
		})

		It("clamps positions outside the travel", func() {
			Expect(slider.StepValue(-1)).To(BeNumerically("~", 0, 1e-9))
			Expect(slider.StepValue(1)).To(BeNumerically("~", 1, 1e-9))
		})

		It("maps a step back to a position", func() {
			Expect(slider.PositionFromStepValue(0.5)).To(BeNumerically("~", 0.05, 1e-9))
			slider.SetStepRange(0, 10, 1)
			Expect(slider.PositionFromStepValue(2)).To(BeNumerically("~", 0.02, 1e-9))
			Expect(slider.StepValue(0.02)).To(BeNumerically("~", 2, 1e-9))
		})

		It("returns the raw value when the step size is zero", func() {
			slider.SetStepRange(0, 1, 0)
			Expect(slider.StepValue(0.027)).To(BeNumerically("~", 0.27, 1e-9))
		})
	})

	Describe("activation", func() {
		It("settles on the resting position at the end of the frame", func() {
			cfg.RestingPosition = 0.5
			activate()
			Expect(slider.GetValue()).To(BeZero())
			Expect(rec.events).To(BeEmpty())

			slider.EndOfFrame()
			Expect(slider.GetValue()).To(BeNumerically("~", 0.05, 1e-9))
			Expect(rec.count(controllable.ValueChanged)).To(Equal(1))
			Expect(rec.events[0].Value).To(BeNumerically("~", 0.5, 1e-9))
		})

		It("reports the minimum limit when resting at the start", func() {
			activate()
			slider.EndOfFrame()
			Expect(slider.AtMinLimit()).To(BeTrue())
			Expect(rec.kinds()).To(Equal([]controllable.EventKind{controllable.MinLimitReached}))
		})

		It("drops the deferred settle when deactivated first", func() {
			cfg.RestingPosition = 1
			activate()
			slider.Deactivate()
			slider.EndOfFrame()
			Expect(slider.GetValue()).To(BeZero())
		})
	})

	Describe("dragging", func() {
		BeforeEach(func() {
			activate()
			slider.EndOfFrame()
			rec.reset()
			slider.Grabbed(grab)
		})

		It("clamps to the travel and reports the maximum", func() {
			slider.DragTo(0.5)
			Expect(slider.GetValue()).To(BeNumerically("~", 0.1, 1e-9))
			Expect(slider.AtMaxLimit()).To(BeTrue())
			Expect(rec.kinds()).To(Equal([]controllable.EventKind{
				controllable.MinLimitExited,
				controllable.MaxLimitReached,
			}))
		})

		It("emits value changes only when the step changes", func() {
			slider.DragTo(0.05)
			slider.DragTo(0.0501)
			slider.DragTo(0.0502)
			Expect(rec.count(controllable.ValueChanged)).To(Equal(1))

			slider.DragTo(0.07)
			Expect(rec.count(controllable.ValueChanged)).To(Equal(2))
		})

		It("ignores drags once released", func() {
			slider.Ungrabbed(grab)
			slider.DragTo(0.05)
			Expect(slider.GetValue()).To(BeZero())
		})
	})

	Context("with a longer travel", func() {
		BeforeEach(func() {
			cfg.MaximumLength = 0.4
			activate()
			slider.EndOfFrame()
			rec.reset()
			slider.Grabbed(grab)
		})

		It("widens the limit band with the travel length", func() {
			slider.DragTo(0.3)
			Expect(slider.AtMaxLimit()).To(BeTrue())

			slider.DragTo(0.2)
			Expect(slider.AtMaxLimit()).To(BeFalse())
			Expect(slider.AtMinLimit()).To(BeFalse())

			slider.DragTo(0.14)
			Expect(slider.AtMinLimit()).To(BeTrue())
			Expect(rec.kinds()).To(Equal([]controllable.EventKind{
				controllable.MinLimitExited,
				controllable.MaxLimitReached,
				controllable.MaxLimitExited,
				controllable.MinLimitReached,
			}))
		})
	})

	Context("with raw values", func() {
		BeforeEach(func() {
			cfg.UseStepAsValue = false
			activate()
			slider.EndOfFrame()
			rec.reset()
			slider.Grabbed(grab)
		})

		It("emits a value change for every move beyond the equality fidelity", func() {
			slider.DragTo(0.05)
			slider.DragTo(0.0505)
			slider.DragTo(0.06)
			Expect(rec.count(controllable.ValueChanged)).To(Equal(2))
			Expect(rec.events[len(rec.events)-1].Value).To(BeNumerically("~", 0.06, 1e-9))
		})
	})

	Context("with snap to step", func() {
		BeforeEach(func() {
			cfg.SnapToStep = true
			activate()
			slider.EndOfFrame()
			slider.Grabbed(grab)
		})

		It("snaps to the nearest step after the frame that released it", func() {
			slider.DragTo(0.027)
			slider.Ungrabbed(grab)
			Expect(slider.GetValue()).To(BeNumerically("~", 0.027, 1e-9))

			frames(slider, 300)
			Expect(slider.GetValue()).To(BeNumerically("~", 0.03, 0.001))
			Expect(slider.Config().RestingPosition).To(BeNumerically("~", 0.3, 1e-9))
			Expect(slider.State().IsMoving).To(BeFalse())
		})
	})

	Context("with a forced resting position", func() {
		BeforeEach(func() {
			cfg.RestingPosition = 0.5
			cfg.ForceRestingPositionThreshold = 0.2
			activate()
			slider.EndOfFrame()
			slider.Grabbed(grab)
		})

		It("returns to rest when released inside the threshold", func() {
			slider.DragTo(0.065)
			slider.Ungrabbed(grab)
			frames(slider, 300)
			Expect(slider.GetValue()).To(BeNumerically("~", 0.05, 0.001))
			Expect(slider.IsResting()).To(BeTrue())
		})

		It("stays put when released outside the threshold", func() {
			slider.DragTo(0.09)
			slider.Ungrabbed(grab)
			frames(slider, 300)
			Expect(slider.GetValue()).To(BeNumerically("~", 0.09, 1e-9))
			Expect(slider.IsResting()).To(BeFalse())
		})
	})

	Describe("resting position setters", func() {
		BeforeEach(func() {
			cfg.ForceRestingPositionThreshold = 0.01
			activate()
			slider.EndOfFrame()
		})

		It("is resting after a forced convergence", func() {
			slider.SetRestingPosition(0.5, 10, true)
			Expect(slider.IsResting()).To(BeFalse())
			frames(slider, 300)
			Expect(slider.IsResting()).To(BeTrue())
		})

		It("moves by step value", func() {
			slider.SetRestingPositionWithStepValue(0.8, 0, true)
			Expect(slider.GetValue()).To(BeNumerically("~", 0.08, 1e-9))
			Expect(slider.IsResting()).To(BeTrue())
		})

		It("leaves a slider that is away from rest alone unless forced", func() {
			slider.SetRestingPosition(0.5, 0, true)
			slider.SetRestingPosition(0.9, 0, false)
			Expect(slider.GetValue()).To(BeNumerically("~", 0.05, 1e-9))
		})

		It("keeps only the newest convergence", func() {
			slider.SetRestingPosition(1, 5, true)
			frames(slider, 3)
			slider.SetRestingPosition(0.2, 5, true)
			frames(slider, 600)
			Expect(slider.GetValue()).To(BeNumerically("~", 0.02, 0.001))
			started, completed, cancelled := slider.Actuator().Stats()
			Expect(started - cancelled).To(Equal(completed))
			Expect(cancelled).To(Equal(1))
		})
	})
})
