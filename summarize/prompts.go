package summarize

const summaryPrompt = `You are summarizing the transcript of an educational video.

Produce a short digest with exactly this structure:
- One sentence stating the core concept of the video.
- 5 to 7 bullet points covering the key ideas, in the order they appear.
- One closing takeaway sentence.

Keep it plain text with "-" bullets. Do not add headings or preamble.

Transcript:
%s`

const notesPrompt = `You are writing structured study notes from the transcript of an educational video. Render the notes in Markdown with this structure:

# <a concise title for the video>

## Overview
Two or three sentences describing what the video covers and who it is for.

## Sections
Break the content into logical sections. For each section:
### <section heading>
- Key points as bullets.
- Where the video describes a process, use a numbered list of steps.
- Where a concept is abstract, add a short analogy that makes it concrete.

## Definitions
A Markdown table with two columns, Term and Definition, covering the important terms introduced in the video.

## Takeaways
3 to 5 actionable takeaways the viewer should apply.

Transcript:
%s`
