package prompt

import (
	"context"
	"errors"
	"strconv"

	"blacksys/internal/album"
	"blacksys/internal/batch"
	"blacksys/internal/crack"
	"blacksys/internal/steam"
	"blacksys/internal/trackers"
)

// SelectTrackers runs the tracker menu until one tracker or all trackers are
// chosen. Add and manage actions loop back to the menu.
func (p *Prompter) SelectTrackers(store *trackers.Store) ([]trackers.Tracker, error) {
	for {
		list, err := store.List()
		if err != nil {
			return nil, err
		}
		p.Heading("\nTrackers:")
		for i, t := range list {
			if i >= trackers.MenuVisible {
				break
			}
			p.Println("%d - %s", i+1, t.Name)
		}
		p.Println("%d - All", trackers.MenuAll)
		p.Println("%d - Add", trackers.MenuAdd)
		p.Println("%d - Manage", trackers.MenuManage)

		answer, err := p.Line("Choose an option")
		if err != nil {
			return nil, err
		}
		choice, convErr := strconv.Atoi(answer)
		switch {
		case convErr != nil:
			p.Warn("Invalid option.")
		case choice == trackers.MenuManage:
			if err := p.ManageTrackers(store); err != nil {
				return nil, err
			}
		case choice == trackers.MenuAdd:
			if err := p.AddTracker(store); err != nil {
				return nil, err
			}
		default:
			selected, err := trackers.SelectFrom(list, choice)
			if errors.Is(err, trackers.ErrNotFound) {
				p.Warn("Invalid option.")
				continue
			}
			return selected, err
		}
	}
}

// AddTracker asks for a name and announce URL and stores them.
func (p *Prompter) AddTracker(store *trackers.Store) error {
	name, err := p.Required("Tracker name")
	if err != nil {
		return err
	}
	url, err := p.Required("Announce URL")
	if err != nil {
		return err
	}
	t, err := store.Add(name, url)
	if err != nil {
		return err
	}
	p.Println("Tracker '%s' added.", t.Name)
	return nil
}

// ManageTrackers lists trackers with their URLs and deletes by number until
// the user enters 0.
func (p *Prompter) ManageTrackers(store *trackers.Store) error {
	for {
		list, err := store.List()
		if err != nil {
			return err
		}
		if len(list) == 0 {
			p.Println("No trackers available.")
			return nil
		}
		p.Heading("\nManage Trackers:")
		for i, t := range list {
			p.Println("%d - %s (%s)", i+1, t.Name, t.URL)
		}
		p.Println("0 - Back")
		answer, err := p.Line("Enter number to delete or 0 to go back")
		if err != nil {
			return err
		}
		if answer == "0" {
			return nil
		}
		n, convErr := strconv.Atoi(answer)
		if convErr != nil {
			continue
		}
		removed, err := store.Remove(n)
		if errors.Is(err, trackers.ErrNotFound) {
			continue
		}
		if err != nil {
			return err
		}
		p.Println("Deleted tracker: %s", removed.Name)
	}
}

// AlbumChooser asks the per-album questions of a transcode batch.
type AlbumChooser struct {
	Prompter *Prompter
	Trackers *trackers.Store
}

// Choose implements batch.Chooser.
func (c AlbumChooser) Choose(_ context.Context, a batch.Album) (album.Job, error) {
	p := c.Prompter
	job := album.Job{Source: a.Path}

	p.Heading("\nAlbum: %s", a.Name)
	p.Println("Transcoding format:")
	p.Println(" 1. V0 Only")
	p.Println(" 2. 320 Only")
	p.Println(" 3. Both")
	p.Println(" 4. Skip")
	for {
		answer, err := p.Line("Enter choice [1-4]")
		if err != nil {
			return job, err
		}
		choice, err := album.ParseChoice(answer)
		if err == nil {
			job.Choice = choice
			break
		}
		p.Warn("Invalid, please enter 1, 2, 3, or 4")
	}
	if job.Skipped() {
		return job, nil
	}

	torrent, err := p.YesNo("Do you want to create a .torrent?")
	if err != nil {
		return job, err
	}
	if torrent {
		job.Torrent = true
		if job.Trackers, err = p.SelectTrackers(c.Trackers); err != nil {
			return job, err
		}
	}
	if job.Delete, err = p.YesNo("Do you want to delete the flac after transcoding?"); err != nil {
		return job, err
	}
	return job, nil
}

// ArchResolver asks which word size a Linux library is.
type ArchResolver struct {
	Prompter *Prompter
}

// ResolveArch implements crack.ArchResolver.
func (r ArchResolver) ResolveArch(_ context.Context, path string) (crack.Arch, error) {
	p := r.Prompter
	p.Warn("Could not determine architecture for %s", path)
	for {
		answer, err := p.Line("Input 1 for 32-bit, 2 for 64-bit")
		if err != nil {
			return "", err
		}
		switch answer {
		case "1":
			return crack.Arch32, nil
		case "2":
			return crack.Arch64, nil
		}
	}
}

// SteamCredentials asks for the password and an optional guard code.
func (p *Prompter) SteamCredentials(context.Context) (steam.Credentials, error) {
	p.Println("Cached login not available. Enter credentials once.")
	var creds steam.Credentials
	password, err := p.Secret("Steam password")
	if err != nil {
		return creds, err
	}
	creds.Password = password
	guard, err := p.Confirm("Provide Steam Guard code now?", false)
	if err != nil {
		return creds, err
	}
	if guard {
		if creds.GuardCode, err = p.Line("Steam Guard code (e.g., ABCDE)"); err != nil {
			return creds, err
		}
	}
	return creds, nil
}

// SteamPlatforms asks which platforms to download.
func (p *Prompter) SteamPlatforms() ([]steam.Platform, error) {
	choices := []string{"Linux only", "Windows only", "macOS only", "All"}
	idx, err := p.Choice("Which platform(s) to download?", choices, 3)
	if err != nil {
		return nil, err
	}
	all := steam.Platforms()
	switch idx {
	case 0:
		return steam.ParsePlatforms([]string{"linux"})
	case 1:
		return steam.ParsePlatforms([]string{"windows"})
	case 2:
		return steam.ParsePlatforms([]string{"macos"})
	}
	return all, nil
}
