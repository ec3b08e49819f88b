package report_test

import (
	"os"
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frherrer/component-architect/internal/domain"
	"github.com/frherrer/component-architect/internal/report"
)

var _ = Describe("Report", func() {
	var res *domain.Result

	BeforeEach(func() {
		tokenIssue := domain.Issue{
			Category: domain.CategoryDesignToken,
			Message:  "Missing shadow: token value not used in HTML/CSS.",
			Token:    "shadow",
			Expected: "0 4px 6px rgba(0,0,0,0.1)",
		}
		failed := domain.Verdict{Design: []domain.Issue{tokenIssue}}
		start := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
		res = &domain.Result{
			RunID:       "run-1",
			Prompt:      "profile | card",
			Files:       domain.FileSet{Markup: "<p></p>", Styles: "p {}", Logic: "export class A {}"},
			Valid:       true,
			State:       domain.StateAccepted,
			Attempts:    2,
			Slug:        "profile-card",
			ClassName:   "ProfileCardComponent",
			Warnings:    []string{"Blocked suspicious pattern: 'act as'"},
			Transitions: []domain.State{domain.StateGenerated, domain.StateValidated1, domain.StateFixed, domain.StateValidated2, domain.StateAccepted},
			Log: []domain.AttemptRecord{
				{Ordinal: 1, Phase: domain.PhaseGenerate, Verdict: failed, Errors: failed.Strings()},
				{Ordinal: 2, Phase: domain.PhaseFix, Passed: true},
			},
			SavedPaths: map[domain.FileKey]string{domain.Logic: "out/profile-card.component.ts"},
			StartedAt:  start,
			FinishedAt: start.Add(1500 * time.Millisecond),
		}
	})

	Describe("Markdown", func() {
		It("should summarize the run", func() {
			md := report.Markdown(res)
			Expect(md).To(HavePrefix("# ProfileCardComponent\n"))
			Expect(md).To(ContainSubstring("| Status | **ACCEPTED** |"))
			Expect(md).To(ContainSubstring(`| Prompt | profile \| card |`))
			Expect(md).To(ContainSubstring("| Duration | 1.5s |"))
			Expect(md).To(ContainSubstring("GENERATED → VALIDATED_1 → FIXED → VALIDATED_2 → ACCEPTED"))
			Expect(md).To(ContainSubstring("- Blocked suspicious pattern: 'act as'"))
		})

		It("should list each attempt with its errors", func() {
			md := report.Markdown(res)
			Expect(md).To(ContainSubstring("### Attempt 1 (generate): failed"))
			Expect(md).To(ContainSubstring("- [DESIGN_TOKEN] Missing shadow: token value not used in HTML/CSS.\n  - `TOKEN: shadow`"))
			Expect(md).To(ContainSubstring("### Attempt 2 (fix): passed\n\nNo errors."))
		})

		It("should include saved paths and file contents", func() {
			md := report.Markdown(res)
			Expect(md).To(ContainSubstring("- `out/profile-card.component.ts`"))
			Expect(md).To(ContainSubstring("### component.ts\n\n```typescript\nexport class A {}\n```"))
		})
	})

	Describe("HTML", func() {
		It("should render a page with a table", func() {
			page, err := report.HTML(res)
			Expect(err).ToNot(HaveOccurred())
			Expect(page).To(HavePrefix("<!DOCTYPE html>"))
			Expect(page).To(ContainSubstring("<title>ProfileCardComponent report</title>"))
			Expect(page).To(ContainSubstring("<h1>ProfileCardComponent</h1>"))
			Expect(page).To(ContainSubstring("<table>"))
			Expect(page).To(ContainSubstring(`<code class="language-css">`))
		})
	})

	Describe("WriteFile", func() {
		It("should pick the format from the extension", func() {
			dir := GinkgoT().TempDir()
			mdPath := filepath.Join(dir, "r", "run.md")
			htmlPath := filepath.Join(dir, "run.html")
			Expect(report.WriteFile(mdPath, res)).To(Succeed())
			Expect(report.WriteFile(htmlPath, res)).To(Succeed())

			md, err := os.ReadFile(mdPath)
			Expect(err).ToNot(HaveOccurred())
			Expect(string(md)).To(HavePrefix("# "))

			page, err := os.ReadFile(htmlPath)
			Expect(err).ToNot(HaveOccurred())
			Expect(string(page)).To(ContainSubstring("<h1>"))
		})
	})
})
