// Command gitclienttest lists the references of a git repository and
// checks the archives found at one of them.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/dnswlt/egeria/internal/archive"
	"github.com/dnswlt/egeria/internal/gitclient"
	"github.com/dnswlt/egeria/internal/store"
	"github.com/dnswlt/egeria/internal/typedefs"
)

func main() {
	var (
		url      string
		username string
		password string
		ref      string
		dir      string
	)

	flag.StringVar(&url, "url", "", "Repository URL to list")
	flag.StringVar(&username, "user", "", "Username for authentication")
	flag.StringVar(&password, "pass", "", "Password or Token for authentication")
	flag.StringVar(&ref, "ref", "main", "Reference (branch or tag) to check archives at")
	flag.StringVar(&dir, "dir", "archives", "Directory of the archives in the repository")
	flag.Parse()

	if url == "" {
		fmt.Println("Error: -url is required")
		flag.Usage()
		os.Exit(1)
	}

	var auth *gitclient.Auth
	if username != "" || password != "" {
		auth = &gitclient.Auth{
			Username: username,
			Password: password,
		}
	}

	gc, err := gitclient.New(url, auth)
	if err != nil {
		log.Fatalf("Failed to clone %q: %v", url, err)
	}

	refs, err := gc.ListReferences()
	if err != nil {
		log.Fatalf("Failed to list references: %v", err)
	}
	if len(refs) == 0 {
		log.Fatalf("No branches or tags found in %q", url)
	}
	fmt.Printf("Branches and tags in %s:\n", url)
	for _, v := range refs {
		fmt.Printf("  %s\n", v)
	}

	st, err := store.NewGitSource(gc, ref, "").Store("")
	if err != nil {
		log.Fatalf("Cannot open revision %q: %v", ref, err)
	}
	files, err := store.YAMLFiles(st, dir)
	if err != nil {
		log.Fatalf("Failed to list archives in %q at %q: %v", dir, ref, err)
	}

	types := typedefs.MustLoad()
	failed := 0
	fmt.Printf("\nArchives at revision %q:\n", ref)
	for _, f := range files {
		a, err := archive.Read(st, f)
		if err == nil {
			err = a.Validate(types)
		}
		if err != nil {
			failed++
			fmt.Printf("  %s: %v\n", f, err)
			continue
		}
		fmt.Printf("  %s: %s %s (%d entities, %d relationships)\n",
			f, a.Header.Name, a.Header.Version, len(a.Entities), len(a.Relationships))
	}
	if failed > 0 {
		os.Exit(1)
	}
}
