package cli

import (
	stderrors "errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/storeblocks/pkg/block"
	"github.com/matzehuels/storeblocks/pkg/blocks"
	"github.com/matzehuels/storeblocks/pkg/errors"
	"github.com/matzehuels/storeblocks/pkg/registry"
	"github.com/matzehuels/storeblocks/pkg/schema"
	"github.com/matzehuels/storeblocks/pkg/source"
)

// validateCommand checks page files against the block schemas.
func (c *CLI) validateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <page.json>...",
		Short: "Check page files against the block schemas",
		Long: `Check page files against the block schemas.

Every block is checked for a known typename and for fields matching its
schema. The command fails when any block would be skipped by render.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := blocks.NewRegistry()
			if err != nil {
				return err
			}
			set := schema.Builtin()

			failed := 0
			for _, path := range args {
				page, err := source.ReadPage(path)
				if err != nil {
					printError("%s: %s", path, errors.UserMessage(err))
					failed++
					continue
				}
				findings := validatePage(page, reg, set)
				if len(findings) == 0 {
					printSuccess("%s %s", path, StyleDim.Render(fmt.Sprintf("(%d blocks)", len(page.Blocks))))
					continue
				}
				failed++
				printError("%s", path)
				for _, f := range findings {
					printDetail("%s", f)
				}
			}
			if failed > 0 {
				return errors.New(errors.ErrCodeInvalidPage, "%d of %d pages failed validation", failed, len(args))
			}
			return nil
		},
	}
}

// validatePage lists one finding per schema issue or unknown block.
func validatePage(page block.Page, reg *registry.Registry, set *schema.Set) []string {
	var out []string
	for _, d := range page.Blocks {
		if err := errors.ValidateTypename(d.Typename); err != nil {
			out = append(out, fmt.Sprintf("block %s: %s", d.ID(), errors.UserMessage(err)))
			continue
		}
		if _, ok := reg.Resolve(d.Typename); !ok {
			out = append(out, fmt.Sprintf("%s %s: unknown typename", d.Typename, d.ID()))
			continue
		}
		err := set.Validate(d)
		if err == nil {
			continue
		}
		var verr *schema.ValidationError
		if !stderrors.As(err, &verr) {
			out = append(out, fmt.Sprintf("%s %s: %s", d.Typename, d.ID(), errors.UserMessage(err)))
			continue
		}
		for _, is := range verr.Issues {
			out = append(out, fmt.Sprintf("%s %s: %s", d.Typename, d.ID(), is))
		}
	}
	return out
}
