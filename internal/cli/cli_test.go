package cli_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frherrer/component-architect/internal/cli"
)

func testdata(parts ...string) string {
	path, err := filepath.Abs(filepath.Join(append([]string{"..", "..", "testdata"}, parts...)...))
	Expect(err).ToNot(HaveOccurred())
	return path
}

// execute runs the command tree with args and returns what it printed.
func execute(stdin string, args ...string) (string, error) {
	cmd := cli.NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

// fakeModel serves an OpenAI-compatible API that answers with scripted outputs in order.
type fakeModel struct {
	mu      sync.Mutex
	outputs []string
	calls   int
}

func (f *fakeModel) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	switch r.URL.Path {
	case "/models":
		fmt.Fprint(w, `{"data":[{"id":"test-model"}]}`)
	case "/chat/completions":
		f.mu.Lock()
		out := f.outputs[min(f.calls, len(f.outputs)-1)]
		f.calls++
		f.mu.Unlock()
		resp := map[string]any{
			"choices": []map[string]any{{"message": map[string]string{"role": "assistant", "content": out}}},
		}
		Expect(json.NewEncoder(w).Encode(resp)).To(Succeed())
	default:
		http.NotFound(w, r)
	}
}

func (f *fakeModel) script(outputs ...string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.outputs = outputs
}

func (f *fakeModel) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func readRaw(name string) string {
	data, err := os.ReadFile(testdata("raw", name))
	Expect(err).ToNot(HaveOccurred())
	return string(data)
}

var _ = Describe("CLI", func() {
	var (
		dir     string
		cfgPath string
		server  *httptest.Server
		model   *fakeModel
	)

	writeConfig := func() {
		content := fmt.Sprintf(`design_tokens: %s
model:
  provider: openai
  name: test-model
  base_url: %s
output:
  directory: %s
history:
  enabled: true
  path: %s
logging:
  level: error
`, testdata("tokens", "design_tokens.json"), server.URL,
			filepath.Join(dir, "out"), filepath.Join(dir, "history.db"))
		Expect(os.WriteFile(cfgPath, []byte(content), 0644)).To(Succeed())
	}

	BeforeEach(func() {
		dir = GinkgoT().TempDir()
		cfgPath = filepath.Join(dir, "comparch.yaml")
		model = &fakeModel{outputs: []string{readRaw("valid.txt")}}
		server = httptest.NewServer(model)
		DeferCleanup(server.Close)
		writeConfig()
	})

	Describe("validate", func() {
		It("should accept a valid config and token file", func() {
			out, err := execute("", "validate", "-c", cfgPath)
			Expect(err).ToNot(HaveOccurred())
			Expect(out).To(ContainSubstring("is valid"))
			Expect(out).To(ContainSubstring("6 token(s), 2 allowed color(s)"))
		})

		It("should reject an invalid provider", func() {
			content, err := os.ReadFile(cfgPath)
			Expect(err).ToNot(HaveOccurred())
			broken := strings.Replace(string(content), "provider: openai", "provider: bogus", 1)
			Expect(os.WriteFile(cfgPath, []byte(broken), 0644)).To(Succeed())

			_, err = execute("", "validate", "-c", cfgPath)
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("config validation failed"))
		})

		It("should apply environment overrides", func() {
			GinkgoT().Setenv("COMPARCH_PROVIDER", "bogus")
			_, err := execute("", "validate", "-c", cfgPath)
			Expect(err).To(HaveOccurred())
		})

		It("should let flags win over the environment", func() {
			GinkgoT().Setenv("COMPARCH_PROVIDER", "bogus")
			_, err := execute("", "validate", "-c", cfgPath, "--provider", "openai")
			Expect(err).ToNot(HaveOccurred())
		})

		It("should report a missing token file", func() {
			content, err := os.ReadFile(cfgPath)
			Expect(err).ToNot(HaveOccurred())
			broken := strings.Replace(string(content), testdata("tokens", "design_tokens.json"), filepath.Join(dir, "nope.json"), 1)
			Expect(os.WriteFile(cfgPath, []byte(broken), 0644)).To(Succeed())

			_, err = execute("", "validate", "-c", cfgPath)
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("generate", func() {
		It("should write an accepted component and record the run", func() {
			out, err := execute("", "generate", "-c", cfgPath, "a login form")
			Expect(err).ToNot(HaveOccurred())
			Expect(out).To(ContainSubstring("ACCEPTED"))
			Expect(model.count()).To(Equal(1))

			written, err := filepath.Glob(filepath.Join(dir, "out", "*.component.*"))
			Expect(err).ToNot(HaveOccurred())
			Expect(written).To(HaveLen(3))

			out, err = execute("", "history", "list", "-c", cfgPath)
			Expect(err).ToNot(HaveOccurred())
			Expect(out).To(ContainSubstring("ACCEPTED"))
		})

		It("should read the description from stdin", func() {
			out, err := execute("a login form\n", "generate", "-c", cfgPath, "--no-history")
			Expect(err).ToNot(HaveOccurred())
			Expect(out).To(ContainSubstring("Describe the component"))
			Expect(filepath.Join(dir, "history.db")).ToNot(BeAnExistingFile())
		})

		It("should not write files in dry-run mode", func() {
			_, err := execute("", "generate", "-c", cfgPath, "--dry-run", "a login form")
			Expect(err).ToNot(HaveOccurred())
			Expect(filepath.Join(dir, "out")).ToNot(BeADirectory())
		})

		It("should write a markdown report", func() {
			report := filepath.Join(dir, "run.md")
			_, err := execute("", "generate", "-c", cfgPath, "--report", report, "a login form")
			Expect(err).ToNot(HaveOccurred())
			Expect(report).To(BeAnExistingFile())
		})

		It("should exit with code 2 when the component is rejected", func() {
			model.script(readRaw("no_css.txt"))
			out, err := execute("", "generate", "-c", cfgPath, "a login form")

			var exitErr *cli.ExitError
			Expect(errors.As(err, &exitErr)).To(BeTrue())
			Expect(exitErr.Code).To(Equal(2))
			Expect(out).To(ContainSubstring("REJECTED"))
			Expect(out).To(ContainSubstring("[PARSE]"))
		})

		It("should accept an existing component as context", func() {
			_, err := execute("", "generate", "-c", cfgPath, "--extend", testdata("components", "valid"), "a login form")
			Expect(err).ToNot(HaveOccurred())
		})

		It("should ignore an extend directory without components", func() {
			_, err := execute("", "generate", "-c", cfgPath, "--extend", filepath.Join(dir, "nope"), "a login form")
			Expect(err).ToNot(HaveOccurred())
		})

		It("should repair once before accepting", func() {
			model.script(readRaw("missing_brace.txt"), readRaw("valid.txt"))
			out, err := execute("", "generate", "-c", cfgPath, "a login form")
			Expect(err).ToNot(HaveOccurred())
			Expect(model.count()).To(Equal(2))
			Expect(out).To(ContainSubstring("attempt 2 (fix)"))
		})
	})

	Describe("lint", func() {
		It("should pass valid components", func() {
			out, err := execute("", "lint", "-c", cfgPath, testdata("components", "valid"))
			Expect(err).ToNot(HaveOccurred())
			Expect(out).To(ContainSubstring("✓"))
			Expect(out).To(ContainSubstring("1 component(s), 0 failed"))
		})

		It("should report broken components and exit non-zero", func() {
			out, err := execute("", "lint", "-c", cfgPath, testdata("components"))
			var exitErr *cli.ExitError
			Expect(errors.As(err, &exitErr)).To(BeTrue())
			Expect(exitErr.Code).To(Equal(1))
			Expect(out).To(ContainSubstring("profile-card.component"))
			Expect(out).To(ContainSubstring("2 component(s), 1 failed"))
		})
	})

	Describe("auth", func() {
		It("should store, report and remove the key", func() {
			_, err := execute("", "auth", "set", "sk-test")
			Expect(err).ToNot(HaveOccurred())

			out, err := execute("", "auth", "status")
			Expect(err).ToNot(HaveOccurred())
			Expect(out).To(ContainSubstring("is stored"))

			_, err = execute("", "auth", "delete")
			Expect(err).ToNot(HaveOccurred())

			out, err = execute("", "auth", "status")
			Expect(err).ToNot(HaveOccurred())
			Expect(out).To(ContainSubstring("No API key stored"))
		})

		It("should read the key from stdin", func() {
			_, err := execute("sk-from-stdin\n", "auth", "set")
			Expect(err).ToNot(HaveOccurred())
			DeferCleanup(func() { _, _ = execute("", "auth", "delete") })
		})

		It("should not fail deleting a missing key", func() {
			_, err := execute("", "auth", "delete")
			Expect(err).ToNot(HaveOccurred())
		})
	})

	Describe("doctor", func() {
		It("should report a reachable model", func() {
			out, err := execute("", "doctor", "-c", cfgPath)
			Expect(err).ToNot(HaveOccurred())
			Expect(out).To(ContainSubstring("openai/test-model reachable"))
		})

		It("should fail when the model is down", func() {
			server.Close()
			out, err := execute("", "doctor", "-c", cfgPath)
			Expect(err).To(HaveOccurred())
			Expect(out).To(ContainSubstring("✗"))
		})
	})
})
