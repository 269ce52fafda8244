package workdir_test

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/openmmdl/openmmdl-cli/internal/workdir"
)

func writeFile(path, content string) {
	GinkgoHelper()
	Expect(os.WriteFile(path, []byte(content), 0644)).To(Succeed())
}

func names(dir string) []string {
	GinkgoHelper()
	entries, err := os.ReadDir(dir)
	Expect(err).NotTo(HaveOccurred())
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Name())
	}
	return out
}

var _ = Describe("Prepare", func() {
	var root string

	BeforeEach(func() {
		root = GinkgoT().TempDir()
	})

	It("creates a missing directory in fresh mode", func() {
		dir := filepath.Join(root, "run")
		abs, err := workdir.Prepare(dir, workdir.Fresh)
		Expect(err).NotTo(HaveOccurred())
		Expect(filepath.IsAbs(abs)).To(BeTrue())
		Expect(abs).To(BeADirectory())
	})

	It("creates a missing directory in resume mode", func() {
		dir := filepath.Join(root, "run")
		_, err := workdir.Prepare(dir, workdir.Resume)
		Expect(err).NotTo(HaveOccurred())
		Expect(dir).To(BeADirectory())
	})

	It("refuses a target that is a regular file", func() {
		path := filepath.Join(root, "results.dat")
		writeFile(path, "precious")

		for _, mode := range []workdir.Mode{workdir.Fresh, workdir.Resume} {
			_, err := workdir.Prepare(path, mode)
			Expect(err).To(MatchError(workdir.ErrNotDir))
			data, err := os.ReadFile(path)
			Expect(err).NotTo(HaveOccurred())
			Expect(string(data)).To(Equal("precious"))
		}
	})

	Context("with a populated directory", func() {
		var dir string

		BeforeEach(func() {
			dir = filepath.Join(root, "run")
			Expect(os.MkdirAll(filepath.Join(dir, "nested"), 0755)).To(Succeed())
			writeFile(filepath.Join(dir, "old.chk"), "checkpoint")
			writeFile(filepath.Join(dir, "nested", "frames.dcd"), "frames")
		})

		It("wipes it in fresh mode", func() {
			_, err := workdir.Prepare(dir, workdir.Fresh)
			Expect(err).NotTo(HaveOccurred())
			Expect(names(dir)).To(BeEmpty())
		})

		It("leaves existing files untouched in resume mode", func() {
			_, err := workdir.Prepare(dir, workdir.Resume)
			Expect(err).NotTo(HaveOccurred())
			Expect(names(dir)).To(ConsistOf("old.chk", "nested"))
			data, err := os.ReadFile(filepath.Join(dir, "old.chk"))
			Expect(err).NotTo(HaveOccurred())
			Expect(string(data)).To(Equal("checkpoint"))
		})

		It("holds only newly copied inputs after a fresh prepare", func() {
			src := filepath.Join(root, "complex.pdb")
			writeFile(src, "ATOM")

			_, err := workdir.Prepare(dir, workdir.Fresh)
			Expect(err).NotTo(HaveOccurred())
			_, err = workdir.Copy(src, dir)
			Expect(err).NotTo(HaveOccurred())

			Expect(names(dir)).To(ConsistOf("complex.pdb"))
		})
	})
})

var _ = Describe("Copy", func() {
	var root, dir string

	BeforeEach(func() {
		root = GinkgoT().TempDir()
		dir = filepath.Join(root, "run")
		Expect(os.Mkdir(dir, 0755)).To(Succeed())
	})

	It("copies the file under its base name", func() {
		src := filepath.Join(root, "input", "driver.py")
		Expect(os.Mkdir(filepath.Dir(src), 0755)).To(Succeed())
		writeFile(src, "steps = 1000\n")

		dst, err := workdir.Copy(src, dir)
		Expect(err).NotTo(HaveOccurred())
		Expect(dst).To(Equal(filepath.Join(dir, "driver.py")))

		data, err := os.ReadFile(dst)
		Expect(err).NotTo(HaveOccurred())
		Expect(string(data)).To(Equal("steps = 1000\n"))
	})

	It("reports a missing source", func() {
		_, err := workdir.Copy(filepath.Join(root, "nope.pdb"), dir)
		Expect(err).To(MatchError(workdir.ErrNotFound))
	})

	It("rejects a directory as source", func() {
		_, err := workdir.Copy(root, dir)
		Expect(err).To(MatchError(workdir.ErrNotFound))
	})

	It("keeps a file that already lives in the target directory", func() {
		src := filepath.Join(dir, "state.chk")
		writeFile(src, "binary")

		dst, err := workdir.Copy(src, dir)
		Expect(err).NotTo(HaveOccurred())
		Expect(dst).To(Equal(src))

		data, err := os.ReadFile(src)
		Expect(err).NotTo(HaveOccurred())
		Expect(string(data)).To(Equal("binary"))
	})

	It("keeps a checkpoint reached through a symlinked job directory", func() {
		jobDir := filepath.Join(root, "job")
		Expect(os.Mkdir(jobDir, 0755)).To(Succeed())
		checkpoint := filepath.Join(jobDir, "state.chk")
		writeFile(checkpoint, "binary")

		link := filepath.Join(root, "link")
		Expect(os.Symlink(jobDir, link)).To(Succeed())

		prepared, err := workdir.Prepare(link, workdir.Resume)
		Expect(err).NotTo(HaveOccurred())

		_, err = workdir.Copy(checkpoint, prepared)
		Expect(err).NotTo(HaveOccurred())

		data, err := os.ReadFile(checkpoint)
		Expect(err).NotTo(HaveOccurred())
		Expect(string(data)).To(Equal("binary"))
	})

	It("keeps a file hardlinked into the target directory", func() {
		src := filepath.Join(root, "state.chk")
		writeFile(src, "binary")
		Expect(os.Link(src, filepath.Join(dir, "state.chk"))).To(Succeed())

		_, err := workdir.Copy(src, dir)
		Expect(err).NotTo(HaveOccurred())

		data, err := os.ReadFile(src)
		Expect(err).NotTo(HaveOccurred())
		Expect(string(data)).To(Equal("binary"))
	})
})
