package generator_test

import (
	"context"
	"strconv"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/andrewpaige1/studypal-api/generator"
)

var sampleTexts = []string{
	photosynthesisText,
	"Mitosis is a type of cell division that results in two identical daughter cells. " +
		"It consists of four main phases: prophase, metaphase, anaphase and telophase. " +
		"Cell division takes place in the nucleus of eukaryotic cells, and it produces new cells for growth.",
	"The French Revolution refers to the period of political upheaval in France that began in 1789. " +
		"Historians argue about why the monarchy collapsed so quickly. " +
		"Economic hardship, new ideas about rights, and a fiscal crisis all contributed to the change.",
	"Cells divide. Atoms bond. Ions move.",
}

var _ = Describe("Generator", func() {
	ctx := context.Background()
	gen := generator.New(nil, nil)

	It("reports AI as disabled without a provider", func() {
		Expect(gen.AIEnabled()).To(BeFalse())
		Expect(generator.New(newScriptedProvider("m1"), nil).AIEnabled()).To(BeTrue())
	})

	It("returns an empty list for empty input", func() {
		for _, text := range []string{"", "   \n\t "} {
			cards := gen.Generate(ctx, text, 5)
			Expect(cards).NotTo(BeNil())
			Expect(cards).To(BeEmpty())
		}
	})

	It("returns an empty list for a non-positive count", func() {
		Expect(gen.Generate(ctx, photosynthesisText, 0)).To(BeEmpty())
	})

	It("builds the photosynthesis deck from patterns alone", func() {
		cards := gen.Generate(ctx, photosynthesisText, 3)

		Expect(cards).To(HaveLen(3))
		Expect(cards[0].Question).To(Equal("What is Photosynthesis?"))
		Expect(cards[1].Answer).To(Equal("This process involves two main stages: light reactions and dark reactions."))
		Expect(cards[2].Answer).To(Equal("This process occurs in the chloroplasts."))
	})

	It("uses the template fallback for text without sentences", func() {
		Expect(gen.Generate(ctx, "Cells divide. Atoms bond. Ions move.", 3)).To(HaveLen(3))
	})

	It("keeps its output invariants for every count", func() {
		for _, text := range sampleTexts {
			for n := generator.MinCards; n <= generator.MaxCards; n++ {
				cards := gen.Generate(ctx, text, n)
				Expect(len(cards)).To(BeNumerically("<=", n))

				seen := map[string]bool{}
				for i, c := range cards {
					Expect(c.ID).To(Equal(strconv.Itoa(i + 1)))
					Expect(generator.Accept(c.Question, c.Answer)).To(BeTrue(), c.Question)
					Expect(c.Difficulty).To(BeElementOf(generator.DifficultyEasy, generator.DifficultyMedium, generator.DifficultyHard))
					Expect(c.Difficulty).To(Equal(generator.Rate(c.Question, c.Answer)))

					key := generator.NormalizeKey(c.Question)
					Expect(seen).NotTo(HaveKey(key))
					seen[key] = true
				}
			}
		}
	})

	It("is deterministic without a provider", func() {
		for _, text := range sampleTexts {
			Expect(gen.Generate(ctx, text, 10)).To(Equal(gen.Generate(ctx, text, 10)))
		}
	})
})
