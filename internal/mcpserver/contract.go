package mcpserver

// CardFormatContract describes the card JSON shape and the rules the
// catalog applies, for LLM consumers creating or editing cards.
const CardFormatContract = `# Folio Card Format Contract

A card is one portfolio item. The catalog stores all cards as a single JSON
array; every tool that mutates cards rewrites that array as a whole.

## Shape

` + "```" + `json
{
  "id": "3f2c5d0e-9a7b-4c11-8e2f-6d1b0a9c7e55",
  "title": "Tic-Tac-Duel",
  "description": "A two-player tic-tac-toe variant with power-ups and a timer.",
  "shortDescription": "A two-player tic-tac-toe variant with power-ups and a...",
  "category": "Games",
  "imagePath": "/uploads/1717171717171-tictac.png",
  "productLink": "https://example.itch.io/tic-tac-duel",
  "videoLink": "https://youtu.be/dQw4w9WgXcQ",
  "createdAt": 1717171717171
}
` + "```" + `

## Rules

1. **` + "`" + `id` + "`" + ` and ` + "`" + `createdAt` + "`" + ` are assigned by the catalog.** Never invent them
   when creating a card. ` + "`" + `createdAt` + "`" + ` is Unix time in milliseconds.
2. **` + "`" + `title` + "`" + `, ` + "`" + `description` + "`" + ` and ` + "`" + `category` + "`" + ` are required.**
3. **` + "`" + `category` + "`" + `** is exactly one of ` + "`" + `Home` + "`" + `, ` + "`" + `Software` + "`" + `, ` + "`" + `Games` + "`" + ` (case-sensitive).
4. **` + "`" + `shortDescription` + "`" + `** is optional. When left empty the catalog uses the
   first ten words of ` + "`" + `description` + "`" + ` followed by ` + "`" + `...` + "`" + `.
5. **` + "`" + `imagePath` + "`" + `** must be a path returned by the ` + "`" + `upload_image` + "`" + ` tool
   (` + "`" + `/uploads/<timestamp>-<name>` + "`" + `). Do not link external images directly.
6. **` + "`" + `productLink` + "`" + `** is any absolute URL; the site shows its hostname.
7. **` + "`" + `videoLink` + "`" + `** may be a YouTube URL (` + "`" + `youtu.be/<id>` + "`" + `, ` + "`" + `watch?v=<id>` + "`" + `,
   ` + "`" + `/embed/<id>` + "`" + `); other links are shown as plain links.

## Highlights

The home page highlights the ` + "`" + `numberOfHighlights` + "`" + ` most recently created cards
of any category. Change it with ` + "`" + `set_highlights` + "`" + `; zero hides the section.

## Images

- Upload via ` + "`" + `upload_image` + "`" + ` with an http(s) URL or a base64 data URI.
- Supported formats: png, jpg, jpeg, gif, webp, svg.
- The returned ` + "`" + `imagePath` + "`" + ` goes straight into the card.
`
