package models_test

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/andrewpaige1/studypal-api/models"
)

var _ = Describe("PaymentIntent", func() {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	It("confirms a pending intent once", func() {
		p := &models.PaymentIntent{PublicID: "pi_1", Status: models.PaymentPending}

		Expect(p.Confirm(now)).To(Succeed())
		Expect(p.Status).To(Equal(models.PaymentSucceeded))
		Expect(*p.ConfirmedAt).To(Equal(now))

		Expect(p.Confirm(now)).To(MatchError(models.ErrInvalidTransition))
		Expect(p.Cancel(now)).To(MatchError(models.ErrInvalidTransition))
	})

	It("cancels a pending intent", func() {
		p := &models.PaymentIntent{Status: models.PaymentPending}

		Expect(p.Cancel(now)).To(Succeed())
		Expect(p.Status).To(Equal(models.PaymentCanceled))
		Expect(p.CanceledAt).NotTo(BeNil())
		Expect(p.Confirm(now)).To(MatchError(models.ErrInvalidTransition))
	})
})

var _ = Describe("Tier", func() {
	It("parses known tiers only", func() {
		tier, ok := models.ParseTier("pro")
		Expect(ok).To(BeTrue())
		Expect(tier).To(Equal(models.TierPro))

		_, ok = models.ParseTier("platinum")
		Expect(ok).To(BeFalse())
	})

	It("reports pro users", func() {
		Expect((&models.User{Tier: models.TierPro}).IsPro()).To(BeTrue())
		Expect((&models.User{Tier: models.TierFree}).IsPro()).To(BeFalse())
	})
})

var _ = Describe("FlashcardSet", func() {
	It("checks ownership by subject", func() {
		set := models.FlashcardSet{User: models.User{Auth0ID: "auth0|abc"}}
		Expect(set.OwnedBy("auth0|abc")).To(BeTrue())
		Expect(set.OwnedBy("auth0|xyz")).To(BeFalse())
		Expect(set.OwnedBy("")).To(BeFalse())
	})
})
