// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/slices"
)

const (
	ConfigLoadFailedId Id = iota + 1
	ExecutableNotFoundId
	ToolFileNotFoundId
	LaunchFailedId
	BootstrapFailedId
	SymlinkPrivilegeId
	SymlinkFailedId
	CatalogLoadFailedId
	ApplicationNotFoundId
	InvalidEnvironmentId
)

type (
	Id int

	MarkdownMsg string

	HttpLink string

	Issue struct {
		id       Id          // ID used to look up the issue
		mdMsg    MarkdownMsg // Markdown text that will be rendered
		docLinks []HttpLink
		extLinks []HttpLink // external links that might be useful for the user
	}
)

var (
	render = glamour.Render

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration!

The configuration file could not be read or does not match the schema.

## Things you can try:
- Print the effective configuration:
~~~
$ stlaunch config show
~~~

- Check the file location:
~~~
$ stlaunch config path
~~~

- Regenerate a default file and compare:
~~~
$ stlaunch config dump
~~~`,
	}

	executableNotFoundIssue = &Issue{
		id: ExecutableNotFoundId,
		mdMsg: `
# Application executable not found!

The launcher starts Blender, Houdini and generic applications directly from
the executable path you give it. That path does not exist.

## Things you can try:
- Pass the full path with ` + "`--exe`" + `:
~~~
$ stlaunch launch blender shot.blend --exe /opt/blender-4.2/blender
~~~

- List the applications discovered on this machine:
~~~
$ stlaunch apps list --all
~~~`,
		extLinks: []HttpLink{"https://docs.blender.org/manual/en/latest/advanced/command_line/launch/index.html"},
	}

	toolFileNotFoundIssue = &Issue{
		id: ToolFileNotFoundId,
		mdMsg: `
# Studio tool file not found!

A load script or requirements file is missing from the tools directory.
Nothing was started.

## Expected layout:
~~~
tools/
  blender_studiotools/load.py
  blender_studiotools/requirements.txt
  houdini_studiotools/load.py
  houdini_studiotools/houdini/toolbar/
  houdini_studiotools/houdini/otls/
~~~

## Things you can try:
- Run the launcher from the directory that contains ` + "`tools/`" + `
- Point ` + "`tools_dir`" + ` at your checkout in the config file`,
	}

	launchFailedIssue = &Issue{
		id: LaunchFailedId,
		mdMsg: `
# The application could not be started!

The main process failed to spawn.

## Things you can try:
- Check that the executable is not a directory and has execute permission
- Inspect the exact command line without starting anything:
~~~
$ stlaunch launch <app> <file> --exe <path> --dry-run
~~~`,
	}

	bootstrapFailedIssue = &Issue{
		id: BootstrapFailedId,
		mdMsg: `
# Dependency bootstrap failed

Installing Python requirements into the application's bundled interpreter did
not succeed. The application was still started, but studio tools that need
those packages may not load.

## Things you can try:
- Check network access to the package index
- Install the requirements manually with the bundled interpreter
- Disable the bootstrap step:
~~~cue
bootstrap: enabled: false
~~~`,
		extLinks: []HttpLink{"https://pip.pypa.io/en/stable/cli/pip_install/"},
	}

	symlinkPrivilegeIssue = &Issue{
		id: SymlinkPrivilegeId,
		mdMsg: `
# Not allowed to create symbolic links!

Windows only lets administrators create symbolic links unless Developer Mode
is enabled.

## Things you can try:
- Enable Developer Mode in *Settings > System > For developers*
- Run the launcher from an elevated prompt`,
		extLinks: []HttpLink{"https://learn.microsoft.com/windows/apps/get-started/enable-your-device-for-development"},
	}

	symlinkFailedIssue = &Issue{
		id: SymlinkFailedId,
		mdMsg: `
# Failed to create symbolic link!

## Common causes:
- The link path already exists
- The parent directory of the link does not exist
- The link name is a reserved Windows device name (CON, NUL, COM1, ...)`,
	}

	catalogLoadFailedIssue = &Issue{
		id: CatalogLoadFailedId,
		mdMsg: `
# Failed to load the application list!

The project's ` + "`apps.yaml`" + ` could not be read.

## Example apps.yaml:
~~~yaml
app_list:
  houdini:
    executable: /opt/hfs20.5/bin/houdini
    app_type: houdini
    extensions: [.hip, .hiplc, .hipnc]
    enabled: true
~~~`,
	}

	applicationNotFoundIssue = &Issue{
		id: ApplicationNotFoundId,
		mdMsg: `
# Application not found in the catalog!

## Things you can try:
- List known applications:
~~~
$ stlaunch apps list --all
~~~

- Add it:
~~~
$ stlaunch apps add nuke --exe /usr/local/Nuke15.1v1/Nuke15.1 --type nuke --ext .nk
~~~`,
	}

	invalidEnvironmentIssue = &Issue{
		id: InvalidEnvironmentId,
		mdMsg: `
# Invalid environment input!

Extra variables are given as ` + "`KEY=VALUE`" + ` pairs with ` + "`--env`" + `, or as dotenv
files with ` + "`--env-file`" + `. Append ` + "`?`" + ` to a file path to make it optional.

~~~
$ stlaunch launch houdini shot.hip --exe /opt/hfs20.5/bin/houdini --env JOB=/show --env-file .env?
~~~`,
	}

	issues = map[Id]*Issue{
		configLoadFailedIssue.Id():    configLoadFailedIssue,
		executableNotFoundIssue.Id():  executableNotFoundIssue,
		toolFileNotFoundIssue.Id():    toolFileNotFoundIssue,
		launchFailedIssue.Id():        launchFailedIssue,
		bootstrapFailedIssue.Id():     bootstrapFailedIssue,
		symlinkPrivilegeIssue.Id():    symlinkPrivilegeIssue,
		symlinkFailedIssue.Id():       symlinkFailedIssue,
		catalogLoadFailedIssue.Id():   catalogLoadFailedIssue,
		applicationNotFoundIssue.Id(): applicationNotFoundIssue,
		invalidEnvironmentIssue.Id():  invalidEnvironmentIssue,
	}
)

func (i *Issue) Id() Id {
	return i.id
}

func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

func (i *Issue) DocLinks() []HttpLink {
	return slices.Clone(i.docLinks)
}

func (i *Issue) ExtLinks() []HttpLink {
	return slices.Clone(i.extLinks)
}

// Render renders the issue's Markdown with the given glamour style.
func (i *Issue) Render(stylePath string) (string, error) {
	var md strings.Builder
	md.WriteString(string(i.mdMsg))
	if len(i.docLinks) > 0 || len(i.extLinks) > 0 {
		md.WriteString("\n\n## See also:\n")
		for _, link := range append(i.DocLinks(), i.extLinks...) {
			md.WriteString("- <" + string(link) + ">\n")
		}
	}
	return render(md.String(), stylePath)
}

// Values returns every catalog entry ordered by ID.
func Values() []*Issue {
	out := make([]*Issue, 0, len(issues))
	for _, i := range issues {
		out = append(out, i)
	}
	slices.SortFunc(out, func(a, b *Issue) int { return int(a.id) - int(b.id) })
	return out
}

func Get(id Id) *Issue {
	return issues[id]
}
