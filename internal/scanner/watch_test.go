package scanner_test

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/sirupsen/logrus"

	"github.com/frherrer/component-architect/internal/scanner"
)

var _ = Describe("Watcher", func() {
	var (
		root    string
		ctx     context.Context
		cancel  context.CancelFunc
		mu      sync.Mutex
		changes []string
		done    chan error
	)

	seen := func() []string {
		mu.Lock()
		defer mu.Unlock()
		return append([]string(nil), changes...)
	}

	BeforeEach(func() {
		root = GinkgoT().TempDir()
		changes = nil
		ctx, cancel = context.WithCancel(context.Background())

		log := logrus.New()
		log.SetOutput(io.Discard)
		w, err := scanner.NewWatcher(20*time.Millisecond, []string{"node_modules/**"}, log)
		Expect(err).ToNot(HaveOccurred())

		done = make(chan error, 1)
		go func() {
			done <- w.Run(ctx, root, func(path string) {
				mu.Lock()
				changes = append(changes, path)
				mu.Unlock()
			})
		}()
		// Give the watcher time to register the root.
		time.Sleep(50 * time.Millisecond)
	})

	AfterEach(func() {
		cancel()
		Eventually(done).Should(Receive(BeNil()))
	})

	It("should report a written component file", func() {
		path := filepath.Join(root, "card.component.css")
		Expect(os.WriteFile(path, []byte(".card {}"), 0644)).To(Succeed())
		Eventually(seen).Should(ContainElement(path))
	})

	It("should coalesce a burst of writes into one change", func() {
		path := filepath.Join(root, "card.component.ts")
		for i := 0; i < 5; i++ {
			Expect(os.WriteFile(path, []byte("export class A {}"), 0644)).To(Succeed())
		}
		Eventually(seen).Should(HaveLen(1))
		Consistently(seen, 100*time.Millisecond).Should(HaveLen(1))
	})

	It("should ignore files that are not component files", func() {
		Expect(os.WriteFile(filepath.Join(root, "README.md"), []byte("# x"), 0644)).To(Succeed())
		Consistently(seen, 150*time.Millisecond).Should(BeEmpty())
	})
})

var _ = Describe("IsComponentFile", func() {
	It("should match the three component extensions", func() {
		Expect(scanner.IsComponentFile("src/app/a.component.ts")).To(BeTrue())
		Expect(scanner.IsComponentFile("a.component.html")).To(BeTrue())
		Expect(scanner.IsComponentFile("a.component.css")).To(BeTrue())
		Expect(scanner.IsComponentFile("a.component.spec.ts")).To(BeFalse())
		Expect(scanner.IsComponentFile("a.service.ts")).To(BeFalse())
	})
})
