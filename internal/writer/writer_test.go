package writer_test

import (
	"io"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/sirupsen/logrus"

	"github.com/frherrer/component-architect/internal/domain"
	"github.com/frherrer/component-architect/internal/writer"
)

var _ = Describe("Writer", func() {
	var (
		dir   string
		log   *logrus.Logger
		files domain.FileSet
	)

	BeforeEach(func() {
		dir = filepath.Join(GinkgoT().TempDir(), "output_component")
		log = logrus.New()
		log.SetOutput(io.Discard)
		files = domain.FileSet{Markup: "<p></p>", Styles: "p {}", Logic: "export class A {}"}
	})

	It("should write the three files named after the slug", func() {
		paths, err := writer.New(dir, false, log).Write(files, "login-form")
		Expect(err).ToNot(HaveOccurred())
		Expect(paths).To(HaveLen(3))
		Expect(paths[domain.Logic]).To(Equal(filepath.Join(dir, "login-form.component.ts")))

		for key, path := range paths {
			data, err := os.ReadFile(path)
			Expect(err).ToNot(HaveOccurred())
			Expect(string(data)).To(Equal(files.Get(key)))
		}
	})

	It("should overwrite existing files", func() {
		w := writer.New(dir, false, log)
		_, err := w.Write(files, "a")
		Expect(err).ToNot(HaveOccurred())
		_, err = w.Write(files.With(domain.Styles, "q {}"), "a")
		Expect(err).ToNot(HaveOccurred())
		data, err := os.ReadFile(filepath.Join(dir, "a.component.css"))
		Expect(err).ToNot(HaveOccurred())
		Expect(string(data)).To(Equal("q {}"))
	})

	It("should not touch the filesystem in dry-run mode", func() {
		paths, err := writer.New(dir, true, log).Write(files, "a")
		Expect(err).ToNot(HaveOccurred())
		Expect(paths).To(HaveLen(3))
		_, statErr := os.Stat(dir)
		Expect(os.IsNotExist(statErr)).To(BeTrue())
	})

	It("should fail when the directory cannot be created", func() {
		blocker := filepath.Join(GinkgoT().TempDir(), "file")
		Expect(os.WriteFile(blocker, []byte("x"), 0644)).To(Succeed())

		_, err := writer.New(filepath.Join(blocker, "sub"), false, log).Write(files, "a")
		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring("[write]"))
	})

	It("should build file names", func() {
		Expect(writer.FileName("card", domain.Markup)).To(Equal("card.component.html"))
	})
})
