// Package hugo writes generated posts into a Hugo site as Markdown files with
// YAML front matter, and parses those files back.
//
// A post with slug "s" lands at <blog_dir>/content/posts/s.md. Publishing the
// same slug again replaces the file.
package hugo
