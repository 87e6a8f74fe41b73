package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/dexter3k/watre/dualexe/ext/exe"
	"github.com/dexter3k/watre/dualexe/ext/exe/exetest"
	"github.com/dexter3k/watre/dualexe/ext/universal"
	"github.com/loft-sh/log"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeInputs(t *testing.T) (dir, dos, win string) {
	t.Helper()

	dir = t.TempDir()
	dos = filepath.Join(dir, "app16.exe")
	win = filepath.Join(dir, "app32.exe")

	dosImage := exetest.Dos{HeaderParagraphs: 2, Relocs: 1, RelocOffset: 0x1c, Code: make([]byte, 100)}.Bytes()
	winImage := exetest.Pe{
		OptionalSize:  exetest.OptionalSizePE32,
		SizeOfHeaders: 0x400,
		Sections: []exetest.Section{
			{Name: ".text", VirtualAddress: 0x1000, VirtualSize: 0x200, RawOffset: 0x400, RawSize: 0x200},
		},
	}.Bytes()

	require.NoError(t, os.WriteFile(dos, dosImage, 0o644))
	require.NoError(t, os.WriteFile(win, winImage, 0o644))
	return dir, dos, win
}

func TestBuildCmd(t *testing.T) {
	dir, dos, win := writeInputs(t)
	output := filepath.Join(dir, "app.exe")

	cmd := &BuildCmd{GlobalFlags: &GlobalFlags{}, Dos: dos, Win: win, Output: output, Tag: "custom"}
	require.NoError(t, cmd.Run(log.Discard))

	data, err := os.ReadFile(output)
	require.NoError(t, err)

	info, err := os.Stat(output)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o755), info.Mode().Perm())

	// one relocation, moved to 0x40, then the tag
	tag := universal.NewTag("custom")
	assert.Equal(t, []byte(tag), data[0x44:][:len(tag)])

	file, err := exe.Read(data)
	require.NoError(t, err)
	require.NotNil(t, file.Pe)
	assert.Equal(t, uint16(0x40), file.Dos.RelocTable)

	text := file.GetSection(".text")
	require.NotNil(t, text)
	assert.Equal(t, bytes.Repeat([]byte{1}, 0x200), data[text.RawOffset:][:text.RawSize])
}

func TestBuildCmdRecipe(t *testing.T) {
	dir, _, _ := writeInputs(t)
	recipePath := filepath.Join(dir, "dualexe.yaml")
	require.NoError(t, os.WriteFile(recipePath, []byte(`
tag: from recipe
builds:
  - dos: app16.exe
    win: app32.exe
    output: first.exe
  - dos: app16.exe
    win: app32.exe
    output: second.exe
    tag: second
`), 0o644))

	cmd := &BuildCmd{GlobalFlags: &GlobalFlags{}, Recipe: recipePath}
	require.NoError(t, cmd.Run(log.Discard))

	first, err := os.ReadFile(filepath.Join(dir, "first.exe"))
	require.NoError(t, err)
	assert.True(t, bytes.Contains(first, universal.NewTag("from recipe")))

	second, err := os.ReadFile(filepath.Join(dir, "second.exe"))
	require.NoError(t, err)
	assert.True(t, bytes.Contains(second, universal.NewTag("second")))
}

func TestBuildCmdFlagErrors(t *testing.T) {
	testCases := []struct {
		name     string
		cmd      BuildCmd
		expected string
	}{
		{
			name:     "missing output",
			cmd:      BuildCmd{Dos: "a.exe", Win: "b.exe"},
			expected: "either --recipe or all of --dos, --win and --output are required",
		},
		{
			name:     "recipe with inputs",
			cmd:      BuildCmd{Recipe: "dualexe.yaml", Dos: "a.exe"},
			expected: "--recipe cannot be combined",
		},
	}

	for _, testCase := range testCases {
		testCase.cmd.GlobalFlags = &GlobalFlags{}
		err := testCase.cmd.Run(log.Discard)
		require.Error(t, err, testCase.name)
		assert.Contains(t, err.Error(), testCase.expected, testCase.name)
	}
}

func TestBuildCmdKeepsOutputOnError(t *testing.T) {
	dir, dos, _ := writeInputs(t)
	output := filepath.Join(dir, "app.exe")
	require.NoError(t, os.WriteFile(output, []byte("previous"), 0o644))

	// a DOS executable is not a PE image
	cmd := &BuildCmd{GlobalFlags: &GlobalFlags{}, Dos: dos, Win: dos, Output: output}
	err := cmd.Run(log.Discard)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "locate modern header")

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Equal(t, []byte("previous"), data)
}

func TestInspectCmd(t *testing.T) {
	dir, dos, win := writeInputs(t)
	output := filepath.Join(dir, "app.exe")
	require.NoError(t, (&BuildCmd{GlobalFlags: &GlobalFlags{}, Dos: dos, Win: win, Output: output}).Run(log.Discard))

	buf := &bytes.Buffer{}
	require.NoError(t, (&InspectCmd{}).Run(buf, output))

	out := buf.String()
	assert.Contains(t, out, "relocs: 1 at 0040")
	assert.Contains(t, out, "stub: none")
	assert.Contains(t, out, "PE machine 014c, PE32 optional header (224 bytes)")
	assert.Contains(t, out, "   .text: 00000800+   200 -> 00001000+   200\n")

	buf.Reset()
	require.NoError(t, (&InspectCmd{}).Run(buf, dos))
	assert.NotContains(t, buf.String(), "PE machine")
}

func TestBuildRoot(t *testing.T) {
	root := BuildRoot()

	for _, name := range []string{"build", "inspect", "version"} {
		cmd, _, err := root.Find([]string{name})
		require.NoError(t, err)
		assert.Equal(t, name, cmd.Name())
	}

	require.NotNil(t, root.PersistentFlags().Lookup("debug"))
}

func TestGlobalFlagsLogger(t *testing.T) {
	defaultLevel := log.Default.GetLevel()

	debug := (&GlobalFlags{Debug: true}).Logger()
	silent := (&GlobalFlags{Silent: true}).Logger()
	plain := (&GlobalFlags{}).Logger()

	assert.Equal(t, logrus.DebugLevel, debug.GetLevel())
	assert.Equal(t, logrus.FatalLevel, silent.GetLevel())
	assert.Equal(t, logrus.InfoLevel, plain.GetLevel())
	assert.Equal(t, defaultLevel, log.Default.GetLevel())
}
