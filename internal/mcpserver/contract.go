package mcpserver

// DocumentFormatContract describes the document format folio serves, for
// LLM consumers that draft documents for the documents directory.
const DocumentFormatContract = `# folio Document Format

A document is a UTF-8 Markdown file in the documents directory.

## Structure

` + "```" + `markdown
---
{
  title: 'Human-readable title',
  tags: ['tag-one', 'tag-two'],
  date: '2024-05-01',
  description: 'One sentence summary',
}
---

Body text in standard Markdown.
` + "```" + `

## Rules

1. The metadata block is optional. When present the first non-blank line of
   the file is exactly ` + "`---`" + ` and the block ends at the next line that is
   exactly ` + "`---`" + `.
2. The block holds one JSON5 object: unquoted keys, single-quoted strings,
   block comments and trailing commas are fine. Lines are joined without separators
   before decoding, so do not rely on line breaks inside strings.
3. Known keys: ` + "`title`" + `, ` + "`tags`" + ` (list of strings), ` + "`date`" + ` (free text,
   not interpreted), ` + "`description`" + `. All are optional; other keys are ignored.
4. A block that does not decode is dropped silently; the document is still
   served without metadata. A block that is never closed swallows the rest
   of the file.
5. The file name decides the slug: the suffix is removed and whitespace runs
   become ` + "`-`" + `. ` + "`My Post.md`" + ` is served as ` + "`My-Post`" + `.
6. A file name starting with ` + "`_`" + ` marks the document hidden. Hidden
   documents are left out of default listings. They are read by their file
   name without the suffix, marker included: ` + "`_draft.md`" + ` is read as
   ` + "`_draft`" + ` while its slug is ` + "`draft`" + `.
`
