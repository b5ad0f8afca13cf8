package handlers_test

import (
	"net/http"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Payment intents", func() {
	var (
		s     *testServer
		ada   string
		grace string
	)

	BeforeEach(func() {
		s = newTestServer(nil)
		ada = s.token("auth0|ada", "ada")
		grace = s.token("auth0|grace", "grace")
	})

	create := func(token string) string {
		rec := s.do(http.MethodPost, "/api/payments/intents", map[string]string{"tier": "pro"}, token)
		Expect(rec.Code).To(Equal(http.StatusCreated), rec.Body.String())
		body := decode(rec)
		Expect(body).To(HaveKeyWithValue("status", "pending"))
		Expect(body["amount_cents"]).To(BeEquivalentTo(499))
		Expect(body).To(HaveKeyWithValue("currency", "usd"))
		return body["id"].(string)
	}

	It("only sells the pro tier", func() {
		rec := s.do(http.MethodPost, "/api/payments/intents", map[string]string{"tier": "free"}, ada)
		Expect(rec.Code).To(Equal(http.StatusBadRequest))
	})

	It("upgrades the user on confirmation", func() {
		id := create(ada)

		rec := s.do(http.MethodPost, "/api/payments/intents/"+id+"/confirm", nil, ada)
		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(decode(rec)).To(HaveKeyWithValue("status", "succeeded"))
		Expect(decode(rec)).To(HaveKey("confirmed_at"))

		me := decode(s.do(http.MethodGet, "/api/users/me", nil, ada))
		Expect(me).To(HaveKeyWithValue("tier", "pro"))
		Expect(me["limits"]).To(BeNil())
	})

	It("refuses to confirm twice or cancel a settled intent", func() {
		id := create(ada)
		Expect(s.do(http.MethodPost, "/api/payments/intents/"+id+"/confirm", nil, ada).Code).To(Equal(http.StatusOK))

		Expect(s.do(http.MethodPost, "/api/payments/intents/"+id+"/confirm", nil, ada).Code).To(Equal(http.StatusConflict))
		Expect(s.do(http.MethodPost, "/api/payments/intents/"+id+"/cancel", nil, ada).Code).To(Equal(http.StatusConflict))
	})

	It("cancels a pending intent without upgrading", func() {
		id := create(ada)

		rec := s.do(http.MethodPost, "/api/payments/intents/"+id+"/cancel", nil, ada)
		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(decode(rec)).To(HaveKeyWithValue("status", "canceled"))

		Expect(decode(s.do(http.MethodGet, "/api/users/me", nil, ada))).To(HaveKeyWithValue("tier", "free"))
		Expect(s.do(http.MethodPost, "/api/payments/intents/"+id+"/confirm", nil, ada).Code).To(Equal(http.StatusConflict))
	})

	It("hides intents from other users", func() {
		id := create(ada)
		Expect(s.do(http.MethodPost, "/api/payments/intents/"+id+"/confirm", nil, grace).Code).To(Equal(http.StatusNotFound))

		body := decode(s.do(http.MethodGet, "/api/payments/intents", nil, grace))
		Expect(body["payment_intents"]).To(BeEmpty())
	})

	It("lists the caller's intents newest first", func() {
		first := create(ada)
		Expect(s.do(http.MethodPost, "/api/payments/intents/"+first+"/cancel", nil, ada).Code).To(Equal(http.StatusOK))
		second := create(ada)

		body := decode(s.do(http.MethodGet, "/api/payments/intents", nil, ada))
		Expect(body["total"]).To(BeEquivalentTo(2))
		intents := body["payment_intents"].([]interface{})
		Expect(intents[0]).To(HaveKeyWithValue("id", second))
		Expect(intents[1]).To(HaveKeyWithValue("id", first))
	})

	It("refuses a second purchase once pro", func() {
		id := create(ada)
		Expect(s.do(http.MethodPost, "/api/payments/intents/"+id+"/confirm", nil, ada).Code).To(Equal(http.StatusOK))

		rec := s.do(http.MethodPost, "/api/payments/intents", map[string]string{"tier": "pro"}, ada)
		Expect(rec.Code).To(Equal(http.StatusConflict))
	})
})
