package checks_test

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frherrer/component-architect/internal/checks"
	"github.com/frherrer/component-architect/internal/config"
	"github.com/frherrer/component-architect/internal/domain"
)

func loadComponent(dir, stem string) domain.FileSet {
	var files domain.FileSet
	for _, key := range domain.FileKeys {
		data, err := os.ReadFile(filepath.Join("..", "..", "testdata", "components", dir, stem+".component."+string(key)))
		Expect(err).ToNot(HaveOccurred())
		files = files.With(key, string(data))
	}
	return files
}

var _ = Describe("Validator", func() {
	var (
		validator *checks.Validator
		tokens    config.Tokens
	)

	BeforeEach(func() {
		validator = checks.NewDefaultValidator(config.DefaultConfig().Validation)
		var err error
		tokens, err = config.LoadTokens(filepath.Join("..", "..", "testdata", "tokens", "design_tokens.json"))
		Expect(err).ToNot(HaveOccurred())
	})

	It("should register checkers in report order", func() {
		Expect(validator.Registry().Names()).To(Equal([]string{
			"component", "delimiters", "tags", "format", "token-presence", "color-policy",
		}))
	})

	It("should accept the valid fixture", func() {
		verdict := validator.Validate(loadComponent("valid", "login-form"), tokens)
		Expect(verdict.Issues()).To(BeEmpty())
		Expect(verdict.HasErrors()).To(BeFalse())
	})

	Describe("broken fixture", func() {
		var verdict domain.Verdict

		BeforeEach(func() {
			verdict = validator.Validate(loadComponent("broken", "profile-card"), tokens)
		})

		It("should bucket issues per file", func() {
			Expect(messages(verdict.Markup)).To(Equal([]string{
				"Mismatched tag: expected </span> but found </p>.",
				"Unclosed <span> tag.",
				"Unclosed <div> tag.",
				"Unexpected closing tag </div> with no matching open tag.",
			}))
			Expect(verdict.Styles).To(BeEmpty())
			Expect(messages(verdict.Logic)).To(Equal([]string{
				"Missing styleUrls: must use external CSS file.",
				"Mismatched '{}' in component.ts: 2 open vs 1 close.",
			}))
		})

		It("should put token issues in the design bucket", func() {
			Expect(verdict.Design).ToNot(BeEmpty())
			for _, issue := range verdict.Design {
				Expect(issue.Category).To(Equal(domain.CategoryDesignToken))
			}
			Expect(messages(verdict.Design)).To(ContainElement("Unauthorized color '#123456': hex color not in design system."))
		})

		It("should concatenate in markup, styles, logic, design order", func() {
			all := verdict.Issues()
			Expect(all[0].File).To(Equal(domain.Markup))
			Expect(all[len(all)-1].Category).To(Equal(domain.CategoryDesignToken))
			Expect(verdict.Strings()).To(HaveLen(len(all)))
		})
	})

	It("should be idempotent", func() {
		files := loadComponent("broken", "profile-card")
		Expect(validator.Validate(files, tokens)).To(Equal(validator.Validate(files, tokens)))
	})

	It("should honor a custom registry", func() {
		registry := checks.NewRegistry()
		registry.RegisterFile(checks.NewFormatCheck())
		v := checks.NewValidator(registry)
		verdict := v.Validate(domain.FileSet{Styles: "```"}, tokens)
		Expect(verdict.Issues()).To(HaveLen(1))
		Expect(verdict.Styles).To(HaveLen(1))
	})
})

var _ = Describe("Aggregate", func() {
	It("should place known files in their buckets and others in design", func() {
		verdict := checks.Aggregate(map[domain.FileKey][]domain.Issue{
			domain.Logic:  {{Category: domain.CategorySyntax, Message: "a"}},
			domain.Markup: {{Category: domain.CategoryHTML, Message: "b"}},
			"design":      {{Category: domain.CategoryDesignToken, Message: "c"}},
		})
		Expect(messages(verdict.Issues())).To(Equal([]string{"b", "a", "c"}))
	})

	It("should keep duplicate issues", func() {
		issue := domain.Issue{Category: domain.CategorySyntax, Message: "same"}
		verdict := checks.Aggregate(map[domain.FileKey][]domain.Issue{domain.Logic: {issue, issue}})
		Expect(verdict.Logic).To(HaveLen(2))
	})

	It("should produce an empty verdict from no input", func() {
		Expect(checks.Aggregate(nil).HasErrors()).To(BeFalse())
	})
})
