package generator_test

import (
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/andrewpaige1/studypal-api/generator"
)

var _ = Describe("Quality gate", func() {
	const goodAnswer = "Photosynthesis converts light energy into chemical energy."

	DescribeTable("Accept",
		func(question, answer string, want bool) {
			Expect(generator.Accept(question, answer)).To(Equal(want))
		},
		Entry("well formed", "What is photosynthesis?", goodAnswer, true),
		Entry("question too short", "Why it?", goodAnswer, false),
		Entry("question too long", "What "+strings.Repeat("x", 150)+"?", goodAnswer, false),
		Entry("answer too short", "What is photosynthesis?", "Light to sugar", false),
		Entry("answer too long", "What is photosynthesis?", strings.Repeat("word ", 101), false),
		Entry("missing question mark", "What is photosynthesis", goodAnswer, false),
		Entry("no interrogative", "Explain photosynthesis in plants?", goodAnswer, false),
		Entry("interrogative is case-insensitive", "WHERE is chlorophyll found?", "Chlorophyll is found in chloroplasts.", true),
		Entry("question equals answer", "What is this thing called here?", "What is this thing called here?", false),
		Entry("fewer than three question words", "Whatever happened?", goodAnswer, false),
		Entry("fewer than four answer words", "What is photosynthesis?", "Sugar-making-from-sunlight process", false),
	)

	Describe("Rate", func() {
		It("scores a short definition as easy", func() {
			Expect(generator.Rate(
				"What is Photosynthesis?",
				"Photosynthesis is the process by which plants convert light energy into chemical energy.",
			)).To(Equal(generator.DifficultyEasy))
		})

		It("scores a moderately complex pair as medium", func() {
			Expect(generator.Rate(
				"Why do plants need sunlight?",
				"Plants need sunlight, water, and carbon dioxide to power the process of photosynthesis.",
			)).To(Equal(generator.DifficultyMedium))
		})

		It("scores a dense analytical pair as hard", func() {
			Expect(generator.Rate(
				"How does the mechanism of natural selection explain adaptation?",
				"Natural selection, a fundamental principle of evolution, explains adaptation: organisms with "+
					"advantageous variations survive, reproduce, and transmit characteristics to subsequent generations.",
			)).To(Equal(generator.DifficultyHard))
		})

		It("is deterministic", func() {
			q, a := "How do enzymes lower activation energy?", "Enzymes stabilize the transition state, lowering the energy barrier."
			Expect(generator.Rate(q, a)).To(Equal(generator.Rate(q, a)))
		})
	})
})
