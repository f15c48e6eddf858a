package controls_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/controlsim/internal/controllable"
	"github.com/san-kum/controlsim/internal/controls"
	"github.com/san-kum/controlsim/internal/dynamo"
	"github.com/san-kum/controlsim/internal/host"
)

var _ = Describe("Button", func() {
	var (
		node   *host.Node
		cfg    controls.ButtonConfig
		button *controls.Button
		rec    *recorder
		origin = dynamo.Vec3{X: 1, Y: 0.5, Z: -2}
	)

	BeforeEach(func() {
		node = host.NewNode("button")
		node.SetLocalPosition(origin)
		cfg = controls.DefaultButtonConfig()
	})

	activate := func() {
		button = controls.NewButton("button", dynamo.AxisY, node, cfg)
		button.Activate()
		rec = record(button)
	}

	Context("with stay pressed", func() {
		BeforeEach(func() {
			cfg.StayPressed = true
			activate()
		})

		It("ends at origin plus axis times the pressed distance", func() {
			button.Touched(hand)
			Expect(button.Actuator().Moving()).To(BeTrue())

			frames(button, 300)
			Expect(button.State().IsMoving).To(BeFalse())
			Expect(dynamo.Near(node.LocalPosition(), origin.Add(dynamo.Vec3{Y: 0.1}), 0.001)).To(BeTrue())
			Expect(button.IsPressed()).To(BeTrue())
			Expect(button.GetNormalizedValue()).To(BeNumerically("~", 1, 1e-9))
		})

		It("reaches the maximum limit exactly once and releases the interactor", func() {
			button.Touched(hand)
			frames(button, 300)

			Expect(rec.count(controllable.MaxLimitReached)).To(Equal(1))
			Expect(button.AtMaxLimit()).To(BeTrue())
			Expect(button.AtMinLimit()).To(BeFalse())
			_, held := button.Interactor()
			Expect(held).To(BeFalse())
		})

		It("returns home when the hold is released", func() {
			button.Touched(hand)
			frames(button, 300)

			button.SetStayPressed(false)
			frames(button, 300)
			Expect(button.AtOriginPosition()).To(BeTrue())
			Expect(rec.kinds()).To(Equal([]controllable.EventKind{
				controllable.MaxLimitReached,
				controllable.MaxLimitExited,
				controllable.MinLimitReached,
			}))
		})
	})

	Context("without stay pressed", func() {
		BeforeEach(activate)

		It("presses and springs back", func() {
			button.Touched(hand)
			button.Untouched(hand)
			frames(button, 600)

			Expect(rec.count(controllable.MaxLimitReached)).To(Equal(1))
			Expect(rec.count(controllable.MinLimitReached)).To(Equal(1))
			Expect(button.AtOriginPosition()).To(BeTrue())
			Expect(button.AtMinLimit()).To(BeTrue())
			_, held := button.Interactor()
			Expect(held).To(BeFalse())
		})

		It("keeps the interactor while still touched at origin", func() {
			button.Touched(hand)
			frames(button, 600)

			Expect(button.AtOriginPosition()).To(BeTrue())
			c, held := button.Interactor()
			Expect(held).To(BeTrue())
			Expect(c.ID).To(Equal("right-hand"))
		})

		It("ignores touches while converging", func() {
			button.Touched(hand)
			frames(button, 3)
			target, _ := button.Actuator().Target()

			button.Touched(hand)
			again, moving := button.Actuator().Target()
			Expect(moving).To(BeTrue())
			Expect(again).To(Equal(target))
		})

		It("ignores the player body", func() {
			button.Touched(body)
			Expect(button.Actuator().Moving()).To(BeFalse())
			Expect(button.State().IsTouched).To(BeFalse())
		})

		It("honours a custom contact filter", func() {
			button.SetContactFilter(host.AcceptAll)
			button.Touched(body)
			Expect(button.Actuator().Moving()).To(BeTrue())
		})

		It("places the button at a position target immediately", func() {
			button.Touched(hand)
			frames(button, 2)

			button.SetPositionTarget(0.5)
			Expect(button.Actuator().Moving()).To(BeFalse())
			Expect(button.GetValue()).To(BeNumerically("~", 0.05, 1e-9))

			frames(button, 10)
			Expect(button.GetValue()).To(BeNumerically("~", 0.05, 1e-9))
		})

		It("stops converging when deactivated", func() {
			button.Touched(hand)
			frames(button, 2)
			button.Deactivate()
			pos := node.LocalPosition()

			frames(button, 10)
			Expect(node.LocalPosition()).To(Equal(pos))
			Expect(rec.count(controllable.ValueChanged)).To(Equal(2))
		})
	})

	Describe("configuration", func() {
		It("rejects a threshold outside the unit interval", func() {
			cfg.PressedThreshold = 1.5
			Expect(cfg.Validate()).To(MatchError(dynamo.ErrInvalidConfig))
		})

		It("accepts the defaults", func() {
			Expect(controls.DefaultButtonConfig().Validate()).To(Succeed())
		})
	})
})
