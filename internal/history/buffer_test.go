package history_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/bouncelab/internal/history"
	"github.com/san-kum/bouncelab/internal/physics"
)

func snapAt(y float64) physics.Snapshot {
	return physics.Snapshot{X: 400, Y: y}
}

var _ = Describe("Buffer", func() {
	var buf *history.Buffer

	BeforeEach(func() {
		var err error
		buf, err = history.NewBuffer(5)
		Expect(err).NotTo(HaveOccurred())
	})

	It("rejects a non-positive capacity", func() {
		_, err := history.NewBuffer(0)
		Expect(err).To(HaveOccurred())
		_, err = history.NewBuffer(-3)
		Expect(err).To(HaveOccurred())
	})

	It("starts empty", func() {
		Expect(buf.Len()).To(Equal(0))
		Expect(buf.Cap()).To(Equal(5))
		_, ok := buf.Last()
		Expect(ok).To(BeFalse())
		_, ok = buf.PopLast()
		Expect(ok).To(BeFalse())
		Expect(buf.Nearest(1.0)).To(Equal(-1))
	})

	Describe("Push", func() {
		It("keeps records in insertion order", func() {
			for i := 0; i < 3; i++ {
				buf.Push(snapAt(float64(i)), float64(i)*0.1)
			}
			Expect(buf.Len()).To(Equal(3))
			Expect(buf.Times()).To(Equal([]float64{0, 0.1, 0.2}))
		})

		It("evicts the oldest records beyond capacity", func() {
			for i := 0; i < 8; i++ { // capacity + 3
				buf.Push(snapAt(float64(i)), float64(i))
			}
			Expect(buf.Len()).To(Equal(5))
			Expect(buf.Times()).To(Equal([]float64{3, 4, 5, 6, 7}))

			r, ok := buf.At(0)
			Expect(ok).To(BeTrue())
			Expect(r.Snap.Y).To(Equal(3.0))
		})
	})

	Describe("PopLast", func() {
		It("drains newest first", func() {
			buf.Push(snapAt(1), 0.0)
			buf.Push(snapAt(2), 0.1)

			r, ok := buf.PopLast()
			Expect(ok).To(BeTrue())
			Expect(r.Time).To(Equal(0.1))

			r, ok = buf.PopLast()
			Expect(ok).To(BeTrue())
			Expect(r.Time).To(Equal(0.0))

			_, ok = buf.PopLast()
			Expect(ok).To(BeFalse())
			Expect(buf.Len()).To(Equal(0))
		})

		It("reuses evicted slots after wrap-around", func() {
			for i := 0; i < 7; i++ {
				buf.Push(snapAt(float64(i)), float64(i))
			}
			r, _ := buf.PopLast()
			Expect(r.Time).To(Equal(6.0))

			buf.Push(snapAt(9), 9)
			r, _ = buf.Last()
			Expect(r.Time).To(Equal(9.0))
			Expect(buf.Times()).To(Equal([]float64{2, 3, 4, 5, 9}))
		})
	})

	Describe("Nearest", func() {
		It("returns the index with minimal distance", func() {
			buf.Push(snapAt(0), 0.0)
			buf.Push(snapAt(1), 0.5)
			buf.Push(snapAt(2), 1.0)

			Expect(buf.Nearest(0.6)).To(Equal(1))
			Expect(buf.Nearest(0.95)).To(Equal(2))
			Expect(buf.Nearest(-5)).To(Equal(0))
			Expect(buf.Nearest(50)).To(Equal(2))
		})

		It("breaks exact-midpoint ties toward the oldest entry", func() {
			buf.Push(snapAt(0), 0.5)
			buf.Push(snapAt(1), 1.0)

			Expect(buf.Nearest(0.75)).To(Equal(0))
		})
	})

	Describe("TruncateAfter", func() {
		BeforeEach(func() {
			for i := 0; i < 5; i++ {
				buf.Push(snapAt(float64(i)), float64(i))
			}
		})

		It("discards everything newer than the index", func() {
			buf.TruncateAfter(2)
			Expect(buf.Len()).To(Equal(3))
			Expect(buf.Times()).To(Equal([]float64{0, 1, 2}))

			r, ok := buf.Last()
			Expect(ok).To(BeTrue())
			Expect(r.Time).To(Equal(2.0))
		})

		It("ignores out-of-range indices", func() {
			buf.TruncateAfter(4)
			Expect(buf.Len()).To(Equal(5))
			buf.TruncateAfter(17)
			Expect(buf.Len()).To(Equal(5))
			buf.TruncateAfter(-1)
			Expect(buf.Len()).To(Equal(5))
		})

		It("keeps accepting pushes afterward", func() {
			buf.TruncateAfter(1)
			buf.Push(snapAt(7), 7)
			Expect(buf.Times()).To(Equal([]float64{0, 1, 7}))
		})
	})

	It("clears completely", func() {
		buf.Push(snapAt(1), 1)
		buf.Clear()
		Expect(buf.Len()).To(Equal(0))
		_, ok := buf.Last()
		Expect(ok).To(BeFalse())
	})

	It("stores snapshots by value", func() {
		b := physics.NewBall(400, 100, physics.ScreenFrame{GroundY: 500})
		buf.Push(b.Snapshot(), 0)

		b.Integrate(1.0 / 144.0)
		b.Integrate(1.0 / 144.0)

		r, _ := buf.Last()
		Expect(r.Snap.Y).To(Equal(100.0))
		Expect(r.Snap.VelocityY).To(Equal(0.0))
	})
})
