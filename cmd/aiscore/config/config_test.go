package configcmder_test

import (
	"bytes"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/spf13/cobra"

	configcmder "github.com/papercomputeco/aiscore/cmd/aiscore/config"
	"github.com/papercomputeco/aiscore/pkg/config"
)

var _ = Describe("NewConfigCmd", func() {
	It("creates a command with the correct use string", func() {
		cmd := configcmder.NewConfigCmd()
		Expect(cmd.Use).To(Equal("config"))
	})

	It("has set, get, and list subcommands", func() {
		cmd := configcmder.NewConfigCmd()
		cmds := cmd.Commands()
		subcommands := make([]string, 0, len(cmds))
		for _, sub := range cmds {
			subcommands = append(subcommands, sub.Name())
		}
		Expect(subcommands).To(ContainElements("set", "get", "list"))
	})
})

var _ = Describe("Config command execution", func() {
	var (
		tmpDir string
		out    *bytes.Buffer
	)

	BeforeEach(func() {
		tmpDir = filepath.Join(GinkgoT().TempDir(), ".aiscore")
		out = &bytes.Buffer{}
	})

	newCmd := func(args ...string) *cobra.Command {
		cmd := configcmder.NewConfigCmd()
		cmd.PersistentFlags().String("config-dir", "", "Override path to .aiscore/ config directory")
		cmd.SetOut(out)
		cmd.SetArgs(append(args, "--config-dir", tmpDir))
		return cmd
	}

	Describe("set subcommand", func() {
		It("sets a config value successfully", func() {
			Expect(newCmd("set", "detector.provider", "Sapling").Execute()).To(Succeed())
			Expect(out.String()).To(ContainSubstring("sapling"))

			_, err := os.Stat(filepath.Join(tmpDir, "config.toml"))
			Expect(err).NotTo(HaveOccurred())

			cfger, err := config.NewConfiger(tmpDir)
			Expect(err).NotTo(HaveOccurred())
			cfg, err := cfger.LoadConfig()
			Expect(err).NotTo(HaveOccurred())
			Expect(cfg.Detector.Provider).To(Equal("sapling"))
		})

		It("rejects unknown keys", func() {
			err := newCmd("set", "invalid_key", "value").Execute()
			Expect(err).To(MatchError(ContainSubstring("unknown config key")))
		})

		It("requires exactly two arguments", func() {
			Expect(newCmd("set", "detector.provider").Execute()).To(HaveOccurred())
		})

		It("rejects zero arguments", func() {
			Expect(newCmd("set").Execute()).To(HaveOccurred())
		})

		It("rejects invalid uint values", func() {
			Expect(newCmd("set", "detector.min_chars", "not-a-number").Execute()).To(HaveOccurred())
		})

		It("rejects invalid durations", func() {
			Expect(newCmd("set", "detector.timeout", "soon").Execute()).To(HaveOccurred())
		})
	})

	Describe("get subcommand", func() {
		It("gets a previously set value", func() {
			Expect(newCmd("set", "history.driver", "postgres").Execute()).To(Succeed())
			out.Reset()

			Expect(newCmd("get", "history.driver").Execute()).To(Succeed())
			Expect(out.String()).To(ContainSubstring("postgres"))
		})

		It("runs without error for unset key", func() {
			Expect(newCmd("get", "history.postgres_dsn").Execute()).To(Succeed())
			Expect(out.String()).To(ContainSubstring("<not set>"))
		})

		It("rejects unknown keys", func() {
			Expect(newCmd("get", "invalid_key").Execute()).To(HaveOccurred())
		})

		It("requires exactly one argument", func() {
			Expect(newCmd("get").Execute()).To(HaveOccurred())
		})

		It("completes config keys", func() {
			cmd := configcmder.NewConfigCmd()
			get, _, err := cmd.Find([]string{"get"})
			Expect(err).NotTo(HaveOccurred())

			completions, directive := get.ValidArgsFunction(get, []string{}, "")
			Expect(completions).To(Equal(config.ValidConfigKeys()))
			Expect(directive).To(Equal(cobra.ShellCompDirectiveNoFileComp))
		})
	})

	Describe("list subcommand", func() {
		It("lists every key", func() {
			Expect(newCmd("list").Execute()).To(Succeed())
			for _, key := range config.ValidConfigKeys() {
				Expect(out.String()).To(ContainSubstring(key))
			}
		})

		It("shows stored values", func() {
			Expect(newCmd("set", "events.topic", "scores").Execute()).To(Succeed())
			out.Reset()

			Expect(newCmd("list").Execute()).To(Succeed())
			Expect(out.String()).To(ContainSubstring(`"scores"`))
		})

		It("rejects any arguments", func() {
			Expect(newCmd("list", "extra").Execute()).To(HaveOccurred())
		})
	})
})
