package cmd

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/ginjaninja78/fieldmove-notes/internal/config"
)

// prompt is one interactive question for a configuration value left empty.
type prompt struct {
	question string
	target   *string
}

// prompts returns the questions for the values still missing from c, in
// the order they are asked.
func prompts(c *config.Config) []prompt {
	all := []prompt{
		{
			question: "Enter the path to the .fm folder exported by FieldMove Clino (e.g. /Users/me/FieldMove/project1.fm): ",
			target:   &c.Input.Dir,
		},
		{question: "Enter the year and field area: ", target: &c.Report.Title},
		{question: "Enter your name: ", target: &c.Report.Author},
		{
			question: "Enter the folder name that contains your images (e.g. image_thumbnails): ",
			target:   &c.Report.ImageDir,
		},
	}

	var missing []prompt
	for _, p := range all {
		if strings.TrimSpace(*p.target) == "" {
			missing = append(missing, p)
		}
	}
	return missing
}

// dirPrompt returns only the folder question, if the folder is missing.
func dirPrompt(c *config.Config) []prompt {
	ps := prompts(c)
	if len(ps) > 0 && ps[0].target == &c.Input.Dir {
		return ps[:1]
	}
	return nil
}

// ask reads one line from in for every prompt. Answers are trimmed of
// surrounding whitespace and line endings.
func ask(ps []prompt, in io.Reader, out io.Writer) error {
	reader := bufio.NewReader(in)

	for _, p := range ps {
		fmt.Fprint(out, p.question)

		line, err := reader.ReadString('\n')
		if err != nil && (err != io.EOF || line == "") {
			if err == io.EOF {
				return eris.New("cmd: input ended before all questions were answered")
			}
			return eris.Wrap(err, "cmd: read answer")
		}

		*p.target = strings.TrimSpace(line)
	}

	return nil
}
