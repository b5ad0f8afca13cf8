package generator_test

import (
	"unicode/utf8"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/andrewpaige1/studypal-api/generator"
)

const photosynthesisText = "Photosynthesis is the process by which plants convert light energy into chemical energy. " +
	"This process occurs in the chloroplasts and involves two main stages: light reactions and dark reactions."

var _ = Describe("Extractor", func() {
	var extractor generator.Extractor

	sources := func(pairs []generator.CandidatePair) []generator.Source {
		out := make([]generator.Source, 0, len(pairs))
		for _, p := range pairs {
			out = append(out, p.Source)
		}
		return out
	}

	It("applies rule families in priority order", func() {
		pairs := extractor.Extract(generator.NewStudyText(photosynthesisText), 5, nil)

		Expect(sources(pairs)).To(Equal([]generator.Source{
			generator.SourcePatternDefinition,
			generator.SourcePatternProcess,
			generator.SourcePatternLocation,
			generator.SourceTemplate,
			generator.SourceTemplate,
		}))
		Expect(pairs[0].Question).To(Equal("What is Photosynthesis?"))
		Expect(pairs[0].Answer).To(Equal("Photosynthesis is the process by which plants convert light energy into chemical energy."))
		Expect(pairs[1].Question).To(Equal("How many main stages are involved in this process?"))
		Expect(pairs[1].Answer).To(Equal("This process involves two main stages: light reactions and dark reactions."))
		Expect(pairs[2].Question).To(Equal("Where does this process occur?"))
		Expect(pairs[2].Answer).To(Equal("This process occurs in the chloroplasts."))
		Expect(pairs[3].Question).To(Equal("What is the main process described?"))
		Expect(pairs[4].Question).To(Equal("What are the key components mentioned?"))
		Expect(pairs[4].Answer).To(HavePrefix("This process occurs in the chloroplasts"))
	})

	It("stops once the needed count is met", func() {
		pairs := extractor.Extract(generator.NewStudyText(photosynthesisText), 1, nil)
		Expect(pairs).To(HaveLen(1))
		Expect(pairs[0].Source).To(Equal(generator.SourcePatternDefinition))
	})

	It("skips excluded normalization keys", func() {
		exclude := map[string]struct{}{"photosynthesis": {}}
		pairs := extractor.Extract(generator.NewStudyText(photosynthesisText), 1, exclude)
		Expect(pairs).To(HaveLen(1))
		Expect(pairs[0].Source).To(Equal(generator.SourcePatternProcess))
	})

	It("recognizes equations", func() {
		st := generator.NewStudyText("Photosynthesis can be summarized by a single formula. " +
			"The overall equation is: 6CO2 + 6H2O -> C6H12O6 + 6O2.")
		pairs := extractor.Extract(st, 1, nil)
		Expect(pairs).To(HaveLen(1))
		Expect(pairs[0].Source).To(Equal(generator.SourcePatternEquation))
		Expect(pairs[0].Question).To(Equal("What is the overall equation for this process?"))
		Expect(pairs[0].Answer).To(Equal("The overall equation is: 6CO2 + 6H2O -> C6H12O6 + 6O2."))
	})

	It("recognizes 'refers to' definitions", func() {
		st := generator.NewStudyText("Osmosis refers to the movement of water across a semipermeable membrane.")
		pairs := extractor.Extract(st, 1, nil)
		Expect(pairs).To(HaveLen(1))
		Expect(pairs[0].Question).To(Equal("What is Osmosis?"))
		Expect(pairs[0].Answer).To(Equal("Osmosis is the movement of water across a semipermeable membrane."))
	})

	It("falls back to raw content when no sentence qualifies", func() {
		raw := "Cells divide. Atoms bond. Ions move."
		pairs := extractor.Extract(generator.NewStudyText(raw), 10, nil)

		Expect(pairs).To(HaveLen(4))
		for _, p := range pairs {
			Expect(p.Source).To(Equal(generator.SourceTemplate))
			Expect(p.Answer).To(Equal(raw))
		}
	})

	It("truncates long content on a word boundary", func() {
		st := generator.NewStudyText("Mitochondria are small organelles found inside nearly every cell of the human body today. " +
			"Scientists study mitochondria closely because they power cellular respiration in animals.")
		pairs := extractor.Extract(st, 10, nil)

		Expect(pairs).To(HaveLen(4))
		Expect(pairs[0].Answer).To(Equal(st.Sentences[0]))
		truncated := pairs[1].Answer
		Expect(truncated).To(HavePrefix("Mitochondria are small organelles"))
		Expect(truncated).To(HaveSuffix("..."))
		Expect(utf8.RuneCountInString(truncated)).To(BeNumerically("<=", 153))
		Expect(utf8.RuneCountInString(truncated)).To(BeNumerically(">=", 103))
		Expect(pairs[3].Answer).To(Equal(st.Sentences[1]))
	})

	It("is deterministic", func() {
		st := generator.NewStudyText(photosynthesisText)
		Expect(extractor.Extract(st, 10, nil)).To(Equal(extractor.Extract(st, 10, nil)))
	})

	It("returns nothing for empty text", func() {
		Expect(extractor.Extract(generator.NewStudyText(""), 3, nil)).To(BeEmpty())
	})
})
