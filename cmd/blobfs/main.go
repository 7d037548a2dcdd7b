// Command blobfs is a small operational tool over a blobfs namespace.
//
// The backing store is picked from the environment:
//
//	BLOBFS_STORAGE_URL=minio://localhost:9000/content \
//	AWS_ACCESS_KEY_ID=minioadmin AWS_SECRET_ACCESS_KEY=minioadmin \
//	blobfs ls docs
//
// Commands: ls, tree, put, get, rm, mkdir, rmdir, mv, du, url.
package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"

	"github.com/tendant/blobfs/pkg/blobfs"
	"github.com/tendant/blobfs/pkg/blobfs/config"
)

func main() {
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	cfg, err := config.Load(config.WithEnv())
	if err != nil {
		log.Fatal().Err(err).Msg("failed to read configuration")
	}

	ctx := context.Background()
	fsys, err := cfg.OpenFileSystem(ctx, blobfs.WithLogger(log))
	if err != nil {
		log.Fatal().Err(err).Str("storage_url", cfg.StorageURL).Msg("failed to open filesystem")
	}

	if err := run(ctx, fsys, os.Args[1], os.Args[2:]); err != nil {
		log.Fatal().Err(err).Str("command", os.Args[1]).Msg("command failed")
	}
}

func run(ctx context.Context, fsys *blobfs.FileSystem, command string, args []string) error {
	switch command {
	case "ls":
		return ls(ctx, fsys, optionalPath(args))
	case "tree":
		return tree(ctx, fsys, os.Stdout, optionalPath(args), "")
	case "put":
		return put(ctx, fsys, requirePath(args))
	case "get":
		return get(ctx, fsys, requirePath(args))
	case "rm":
		return fsys.DeleteFile(ctx, requirePath(args))
	case "mkdir":
		return fsys.CreateFolder(ctx, requirePath(args))
	case "rmdir":
		return fsys.DeleteFolder(ctx, requirePath(args))
	case "mv":
		if len(args) != 2 {
			return fmt.Errorf("mv takes exactly two paths")
		}
		return move(ctx, fsys, args[0], args[1])
	case "du":
		size, err := fsys.FolderSize(ctx, optionalPath(args))
		if err != nil {
			return err
		}
		fmt.Println(size)
		return nil
	case "url":
		u, err := fsys.PublicURL(ctx, requirePath(args))
		if err != nil {
			return err
		}
		fmt.Println(u)
		return nil
	default:
		usage()
		return fmt.Errorf("unknown command %q", command)
	}
}

func ls(ctx context.Context, fsys *blobfs.FileSystem, path string) error {
	folders, err := fsys.ListFolders(ctx, path)
	if err != nil {
		return err
	}
	for _, f := range folders {
		fmt.Printf("%12s  %s/\n", "-", f.Name())
	}

	files, err := fsys.ListFiles(ctx, path)
	if err != nil {
		return err
	}
	for _, f := range files {
		fmt.Printf("%12d  %s\n", f.Size(), f.Name())
	}
	return nil
}

// tree walks the hierarchy under path depth-first and prints one entry
// per line, indented by depth. Folders come before files at each level.
func tree(ctx context.Context, fsys *blobfs.FileSystem, w io.Writer, path, indent string) error {
	folders, err := fsys.ListFolders(ctx, path)
	if err != nil {
		return err
	}
	for _, f := range folders {
		fmt.Fprintf(w, "%s%s/\n", indent, f.Name())
		if err := tree(ctx, fsys, w, f.Path(), indent+"  "); err != nil {
			return err
		}
	}

	files, err := fsys.ListFiles(ctx, path)
	if err != nil {
		return err
	}
	for _, f := range files {
		fmt.Fprintf(w, "%s%s\n", indent, f.Name())
	}
	return nil
}

func put(ctx context.Context, fsys *blobfs.FileSystem, path string) error {
	file, err := fsys.CreateFile(ctx, path)
	if err != nil {
		return err
	}
	w, err := file.Writer(ctx)
	if err != nil {
		return err
	}
	if _, err := io.Copy(w, os.Stdin); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}

func get(ctx context.Context, fsys *blobfs.FileSystem, path string) error {
	file, err := fsys.GetFile(ctx, path)
	if err != nil {
		return err
	}
	r, err := file.Open(ctx)
	if err != nil {
		return err
	}
	defer r.Close()
	_, err = io.Copy(os.Stdout, r)
	return err
}

// move renames a file when the source is one, otherwise falls back to
// a recursive folder rename.
func move(ctx context.Context, fsys *blobfs.FileSystem, from, to string) error {
	isFile, err := fsys.FileExists(ctx, from)
	if err != nil {
		return err
	}
	if isFile {
		return fsys.RenameFile(ctx, from, to)
	}
	return fsys.RenameFolder(ctx, from, to)
}

func optionalPath(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return ""
}

func requirePath(args []string) string {
	if len(args) == 0 {
		usage()
		os.Exit(2)
	}
	return args[0]
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage: blobfs <command> [args]

  ls [path]        list folders and files under path
  tree [path]      list the hierarchy under path recursively
  put <path>       create a file from stdin
  get <path>       write a file to stdout
  rm <path>        delete a file
  mkdir <path>     create a folder
  rmdir <path>     delete a folder recursively
  mv <from> <to>   rename a file or folder
  du [path]        total byte size under path
  url <path>       public URL of a file`)
}
