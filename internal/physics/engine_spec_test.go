package physics_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/wheelsim/internal/config"
	"github.com/san-kum/wheelsim/internal/dynamo"
	"github.com/san-kum/wheelsim/internal/layout"
	"github.com/san-kum/wheelsim/internal/physics"
)

func spin(eng *physics.Engine) physics.Telemetry {
	for eng.Rolling() {
		eng.Step()
	}
	return eng.Telemetry()
}

var _ = Describe("Engine", func() {
	var (
		wheel *layout.Layout
		cfg   *config.Config
	)

	BeforeEach(func() {
		wheel = layout.DefaultEuropean()
		cfg = config.DefaultConfig()
	})

	Context("before launch", func() {
		It("is quiescent with the default result", func() {
			eng, err := physics.New(wheel, cfg, physics.WithSeed(1))
			Expect(err).NotTo(HaveOccurred())
			Expect(eng.Rolling()).To(BeFalse())
			Expect(eng.HasResult()).To(BeFalse())
			Expect(eng.ResultNumber()).To(Equal(0))
		})
	})

	Context("with a seeded source", func() {
		DescribeTable("every spin lands on a wheel number",
			func(seed int64) {
				eng, err := physics.New(wheel, cfg, physics.WithSeed(seed))
				Expect(err).NotTo(HaveOccurred())
				eng.Launch(true)
				tm := spin(eng)

				Expect(tm.Rolling).To(BeFalse())
				Expect(tm.HasResult).To(BeTrue())
				Expect(wheel.Numbers()).To(ContainElement(tm.Result))
				Expect(tm.SubSteps).To(BeNumerically("<=", cfg.MaxSubSteps))
			},
			Entry("seed 123", int64(123)),
			Entry("seed 321", int64(321)),
			Entry("seed 1", int64(1)),
			Entry("seed 99", int64(99)),
		)

		It("reproduces the same outcome for the same seed", func() {
			results := make([]int, 0, 2)
			for i := 0; i < 2; i++ {
				eng, err := physics.New(wheel, cfg, physics.WithSeed(2718))
				Expect(err).NotTo(HaveOccurred())
				eng.Launch(true)
				results = append(results, spin(eng).Result)
			}
			Expect(results[0]).To(Equal(results[1]))
		})
	})

	Context("when the ball is captured", func() {
		It("rests inside the mid-section of the winning pocket", func() {
			cfg.RequireMidForStop = true
			eng, err := physics.New(wheel, cfg, physics.WithSeed(321))
			Expect(err).NotTo(HaveOccurred())
			eng.Launch(true)
			tm := spin(eng)

			Expect(tm.InMid).To(BeTrue())
			Expect(math.Abs(tm.Offset)).To(BeNumerically("<=", dynamo.Deg2Rad(cfg.JitterDeg)+1e-9))
			Expect(tm.R).To(Equal(wheel.PocketR))
			Expect(wheel.Pockets[tm.Pocket].Number).To(Equal(tm.Result))
		})
	})

	Context("when retuned mid-spin", func() {
		It("applies the new snapshot on the next step", func() {
			eng, err := physics.New(wheel, cfg, physics.WithSeed(8))
			Expect(err).NotTo(HaveOccurred())
			eng.Launch(true)
			eng.Step()

			next := eng.Config()
			Expect(next.SetParam("stickiness", 3.5)).To(Succeed())
			Expect(eng.SetConfig(next)).To(Succeed())
			Expect(eng.Config().Stickiness).To(Equal(3.5))

			tm := spin(eng)
			Expect(tm.HasResult).To(BeTrue())
		})
	})
})
