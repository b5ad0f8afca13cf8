package auth_test

import (
	"github.com/golang-jwt/jwt/v5"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/andrewpaige1/studypal-api/auth"
	"github.com/andrewpaige1/studypal-api/config"
)

var _ = Describe("CreateToken", func() {
	env := config.Environment{JWTSecret: "secret", JWTIssuer: "iss", JWTAudience: "aud"}

	It("signs the registered and nickname claims", func() {
		signed, err := auth.CreateToken(env, "auth0|42", "ada")
		Expect(err).NotTo(HaveOccurred())

		claims := jwt.MapClaims{}
		token, err := jwt.ParseWithClaims(signed, claims, func(t *jwt.Token) (interface{}, error) {
			return []byte("secret"), nil
		}, jwt.WithValidMethods([]string{"HS256"}), jwt.WithIssuer("iss"), jwt.WithAudience("aud"))
		Expect(err).NotTo(HaveOccurred())
		Expect(token.Valid).To(BeTrue())

		sub, err := claims.GetSubject()
		Expect(err).NotTo(HaveOccurred())
		Expect(sub).To(Equal("auth0|42"))
		Expect(claims["nickname"]).To(Equal("ada"))
	})

	It("refuses to sign without a secret or subject", func() {
		_, err := auth.CreateToken(config.Environment{}, "auth0|42", "ada")
		Expect(err).To(HaveOccurred())

		_, err = auth.CreateToken(env, "", "ada")
		Expect(err).To(HaveOccurred())
	})
})
