package config_test

import (
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frherrer/component-architect/internal/config"
)

var _ = Describe("Tokens", func() {
	tokenFile := func(name string) string {
		return filepath.Join("..", "..", "testdata", "tokens", name)
	}

	Describe("LoadTokens", func() {
		It("should load underscore keys from JSON", func() {
			tokens, err := config.LoadTokens(tokenFile("design_tokens.json"))
			Expect(err).ToNot(HaveOccurred())
			Expect(tokens.Primary()).To(Equal("#6366f1"))
			Expect(tokens.Secondary()).To(Equal("#a855f7"))
			Expect(tokens.Radius()).To(Equal("8px"))
			Expect(tokens.Font()).To(Equal("'Inter', sans-serif"))
			Expect(tokens.Padding()).To(Equal("16px"))
			Expect(tokens.Shadow()).To(Equal("0 4px 6px rgba(0,0,0,0.1)"))
		})

		It("should load hyphen keys and aliases from YAML", func() {
			tokens, err := config.LoadTokens(tokenFile("design_tokens.yaml"))
			Expect(err).ToNot(HaveOccurred())
			Expect(tokens.Padding()).To(Equal("16px"))
			Expect(tokens.Shadow()).To(Equal("0 4px 6px rgba(0,0,0,0.1)"))
			Expect(tokens.Get("surface")).To(Equal("#ffffff"))
		})

		It("should fail for a missing file with a hint", func() {
			_, err := config.LoadTokens(tokenFile("missing.json"))
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("hint"))
		})

		It("should fail for an empty token file", func() {
			_, err := config.LoadTokens(tokenFile("empty.json"))
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("no tokens"))
		})
	})

	Describe("Colors", func() {
		It("should return the lowercased sorted hex values", func() {
			tokens, err := config.LoadTokens(tokenFile("design_tokens.yaml"))
			Expect(err).ToNot(HaveOccurred())
			Expect(tokens.Colors()).To(Equal([]string{"#6366f1", "#a855f7", "#ffffff"}))
		})

		It("should be empty for the zero value", func() {
			Expect(config.Tokens{}.Colors()).To(BeEmpty())
		})
	})

	Describe("Entries", func() {
		It("should return a copy that does not alias the set", func() {
			tokens := config.NewTokens(map[string]string{"primary-color": "#ff5733"})
			entries := tokens.Entries()
			entries["primary-color"] = "#000000"
			Expect(tokens.Primary()).To(Equal("#ff5733"))
		})
	})

	Describe("IsTokenName", func() {
		It("should accept canonical names and aliases", func() {
			Expect(config.IsTokenName("primary-color")).To(BeTrue())
			Expect(config.IsTokenName("PRIMARY_COLOR")).To(BeTrue())
			Expect(config.IsTokenName("card_shadow")).To(BeTrue())
			Expect(config.IsTokenName("accent")).To(BeFalse())
		})
	})
})
