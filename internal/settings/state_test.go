package settings

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("State", func() {
	var (
		st      *State
		presets []Preset
		t0      time.Time
	)

	BeforeEach(func() {
		presets = Builtin()
		t0 = time.Unix(1000, 0)
		var err error
		st, err = NewState(presets, 0)
		Expect(err).NotTo(HaveOccurred())
	})

	It("rejects an empty preset list", func() {
		_, err := NewState(nil, 0)
		Expect(err).To(MatchError(ErrNoPresets))
	})

	It("starts on the requested preset immediately", func() {
		Expect(st.Current()).To(Equal(presets[0].Settings))
		Expect(st.Transitioning()).To(BeFalse())

		other, err := NewState(presets, 3)
		Expect(err).NotTo(HaveOccurred())
		Expect(other.Current()).To(Equal(presets[3].Settings))
	})

	Describe("preset transitions", func() {
		It("lands exactly on the target once the duration has elapsed", func() {
			Expect(st.ApplyPreset(7, t0, false)).To(BeTrue())
			st.Advance(t0.Add(100 * time.Millisecond))
			st.Advance(t0.Add(DefaultPresetTransition))

			Expect(st.Current()).To(Equal(presets[7].Settings))
			Expect(st.Transitioning()).To(BeFalse())
		})

		It("interpolates with the eased progress and keeps mesh count integral", func() {
			st.ApplyPreset(1, t0, false)
			st.Advance(t0.Add(DefaultPresetTransition / 2))

			cur := st.Current()
			eased := Ease(0.5)
			Expect(cur.MetaballSize).To(BeNumerically("~", 0.55+(0.44-0.55)*eased, 1e-12))
			Expect(cur.MeshCount).To(Equal(int(31 + (80-31)*eased + 0.5)))
		})

		It("replaces an active transition without queueing", func() {
			st.ApplyPreset(1, t0, false)
			st.Advance(t0.Add(200 * time.Millisecond))
			mid := st.Current()

			later := t0.Add(200 * time.Millisecond)
			st.ApplyPreset(2, later, false)
			st.Advance(later)
			Expect(st.Current()).To(Equal(mid))

			st.Advance(later.Add(DefaultPresetTransition))
			Expect(st.Current()).To(Equal(presets[2].Settings))
		})

		It("wraps around when advancing past the last preset", func() {
			st.ApplyPreset(len(presets)-1, t0, true)
			Expect(st.NextPreset(t0)).To(BeTrue())
			Expect(st.PresetIndex()).To(Equal(0))
		})

		It("ignores unknown preset indices", func() {
			Expect(st.ApplyPreset(-1, t0, false)).To(BeFalse())
			Expect(st.ApplyPreset(len(presets), t0, false)).To(BeFalse())
			Expect(st.PresetIndex()).To(Equal(0))
			Expect(st.Transitioning()).To(BeFalse())
		})

		It("cancels an active metaball size tween", func() {
			st.SetValue(MetaballSize, 0.9)
			Expect(st.ResetControl(MetaballSize, t0)).To(BeTrue())
			st.Advance(t0.Add(100 * time.Millisecond))
			Expect(st.Tweening()).To(ConsistOf(MetaballSize))

			start := t0.Add(100 * time.Millisecond)
			from := st.Current().MetaballSize
			st.ApplyPreset(3, start, false)
			Expect(st.Tweening()).To(BeEmpty())

			st.Advance(start.Add(DefaultPresetTransition / 4))
			eased := Ease(0.25)
			Expect(st.Current().MetaballSize).To(BeNumerically("~", from+(0.37-from)*eased, 1e-12))

			st.Advance(start.Add(DefaultPresetTransition))
			Expect(st.Current().MetaballSize).To(Equal(0.37))
		})
	})

	Describe("slider tweens", func() {
		It("returns a single control to the preset value", func() {
			st.SetValue(SwirlStrength, 0.2)
			st.ResetControl(SwirlStrength, t0)

			st.Advance(t0.Add(DefaultSliderTween / 2))
			Expect(st.Current().SwirlStrength).To(BeNumerically("~", 0.2+0.8*Ease(0.5), 1e-12))

			st.Advance(t0.Add(DefaultSliderTween))
			Expect(st.Current().SwirlStrength).To(Equal(1.0))
			Expect(st.Tweening()).To(BeEmpty())
		})

		It("runs several keys concurrently", func() {
			st.SetValue(NoiseStrength, 0)
			st.SetValue(MeshCount, 10)
			st.ResetControl(NoiseStrength, t0)
			st.ResetControl(MeshCount, t0.Add(100*time.Millisecond))
			Expect(st.Tweening()).To(ConsistOf(MeshCount, NoiseStrength))

			st.Advance(t0.Add(DefaultSliderTween))
			Expect(st.Tweening()).To(ConsistOf(MeshCount))
			Expect(st.Current().NoiseStrength).To(Equal(1.0))

			st.Advance(t0.Add(DefaultSliderTween + 100*time.Millisecond))
			Expect(st.Current().MeshCount).To(Equal(31))
		})

		It("stops the preset transition", func() {
			st.ApplyPreset(5, t0, false)
			st.ResetControl(GlueStrength, t0)
			Expect(st.Transitioning()).To(BeFalse())
		})

		It("ignores unknown keys", func() {
			Expect(st.ResetControl("gravity", t0)).To(BeFalse())
			Expect(st.Tweening()).To(BeEmpty())
		})
	})

	Describe("direct input", func() {
		It("clamps mesh count to the body pool", func() {
			Expect(st.SetControl(MeshCount, "200")).To(BeTrue())
			Expect(st.Current().MeshCount).To(Equal(80))

			Expect(st.SetControl(MeshCount, "0")).To(BeTrue())
			Expect(st.Current().MeshCount).To(Equal(1))
		})

		It("honours a smaller pool", func() {
			small, err := NewState(presets, 1, WithMaxBodies(40))
			Expect(err).NotTo(HaveOccurred())
			Expect(small.Current().MeshCount).To(Equal(40))
		})

		It("rejects non-numeric input and keeps the previous value", func() {
			before := st.Current()
			Expect(st.SetControl(MetaballSize, "abc")).To(BeFalse())
			Expect(st.SetControl(MetaballSize, "")).To(BeFalse())
			Expect(st.SetControl(MetaballSize, "NaN")).To(BeFalse())
			Expect(st.Current()).To(Equal(before))
		})

		It("takes a key away from an active transition", func() {
			st.ApplyPreset(1, t0, false)
			st.Advance(t0.Add(100 * time.Millisecond))
			Expect(st.SetControl(SpreadRange, "0.3")).To(BeTrue())

			st.Advance(t0.Add(400 * time.Millisecond))
			Expect(st.Current().SpreadRange).To(Equal(0.3))

			st.Advance(t0.Add(DefaultPresetTransition))
			Expect(st.Current().SpreadRange).To(Equal(0.3))
			Expect(st.Current().MetaballSize).To(Equal(presets[1].MetaballSize))
		})

		It("cancels a tween on the same key", func() {
			st.SetValue(SwirlStrength, 0.1)
			st.ResetControl(SwirlStrength, t0)
			st.SetValue(SwirlStrength, 0.4)
			Expect(st.Tweening()).To(BeEmpty())
			st.Advance(t0.Add(time.Second))
			Expect(st.Current().SwirlStrength).To(Equal(0.4))
		})
	})
})
