package cmd

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"

	"github.com/etnz/profiles"
)

type createCmd struct {
	companyFlags
}

func (*createCmd) Name() string     { return "create" }
func (*createCmd) Synopsis() string { return "create a company" }
func (*createCmd) Usage() string {
	return `cpc create -name <name> [<field flags>]

Create a company and print its id. Only -name is required.
Coded fields only accept the codes listed in their flag description.
`
}

func (c *createCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	company, err := c.company(f)
	if err != nil {
		fmt.Fprintln(f.Output(), err)
		return subcommands.ExitUsageError
	}
	if err := company.Validate(); err != nil {
		return fail(err, "")
	}

	env, err := companies().CreateWithMsg(ctx, company)
	if err != nil {
		return fail(err, "failed to create company")
	}
	if err := env.Err(); err != nil {
		return fail(err, "failed to create company")
	}
	notifier().Success(env.Msg)
	fmt.Fprintln(stdout, env.Data.ID)
	return subcommands.ExitSuccess
}

type editCmd struct {
	companyFlags
}

func (*editCmd) Name() string     { return "edit" }
func (*editCmd) Synopsis() string { return "edit a company" }
func (*editCmd) Usage() string {
	return `cpc edit [<field flags>] <id>

Update the fields given as flags, keeping the others. Editing one industry
attribute keeps the other industry attributes.
`
}

func (c *editCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	id, err := idArg(f)
	if err != nil {
		fmt.Fprintln(f.Output(), err)
		return subcommands.ExitUsageError
	}
	edit, err := c.company(f)
	if err != nil {
		fmt.Fprintln(f.Output(), err)
		return subcommands.ExitUsageError
	}
	if f.NFlag() == 0 {
		fmt.Fprintln(f.Output(), "nothing to edit, give at least one field flag")
		return subcommands.ExitUsageError
	}

	svc := companies()
	current, err := svc.Get(ctx, id)
	if err != nil {
		return fail(err, "failed to load company")
	}
	merged := profiles.MergeEdit(current, edit)
	c.clear(merged.IndustryProfile)
	if current.IndustryProfile == nil && merged.IndustryProfile.IsZero() {
		merged.IndustryProfile = nil
	}

	env, err := svc.UpdateWithMsg(ctx, id, merged)
	if err != nil {
		return fail(err, "failed to update company")
	}
	if err := env.Err(); err != nil {
		return fail(err, "failed to update company")
	}
	notifier().Success(env.Msg)
	return subcommands.ExitSuccess
}

type deleteCmd struct{}

func (*deleteCmd) Name() string     { return "delete" }
func (*deleteCmd) Synopsis() string { return "delete a company" }
func (*deleteCmd) Usage() string {
	return `cpc delete <id>

Delete a company with its industry profile and financial statements.
`
}

func (*deleteCmd) SetFlags(*flag.FlagSet) {}

func (*deleteCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	id, err := idArg(f)
	if err != nil {
		fmt.Fprintln(f.Output(), err)
		return subcommands.ExitUsageError
	}
	env, err := companies().DeleteWithMsg(ctx, id)
	if err != nil {
		return fail(err, "failed to delete company")
	}
	if err := env.Err(); err != nil {
		return fail(err, "failed to delete company")
	}
	notifier().Success(env.Msg)
	return subcommands.ExitSuccess
}
