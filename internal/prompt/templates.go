package prompt

const (
	chapterAwareSystem = "You are a helpful assistant that creates clear, comprehensive summaries of educational video transcripts. " +
		"When chapters are present, you excel at analyzing how content flows between chapters and identifying progressive learning patterns. " +
		"Focus on extracting key insights, actionable advice, and important details while maintaining readability and respecting the chapter structure."

	plainSystem = "You are a helpful assistant that creates clear, comprehensive summaries of educational video transcripts. " +
		"Focus on extracting key insights, actionable advice, and important details while maintaining readability and creating a well-structured summary."
)

const flatTemplate = `Please provide a comprehensive summary of this YouTube video transcript. Structure your response in the following format:

## Overview
Brief 2-3 sentence summary of the video content.

## Main Topics Covered
List the primary themes and subjects discussed in the video.

## Key Takeaways & Insights
Extract the most important points, conclusions, and insights from the video.

## Actionable Strategies
List practical advice, steps, or strategies that viewers can implement.

## Specific Details & Examples
Include important statistics, case studies, examples, or specific details mentioned.

## Warnings & Common Mistakes
Note any pitfalls, warnings, or common mistakes discussed.

## Resources & Next Steps
List any resources, tools, or next steps mentioned for further learning.

`

const chapterOverview = `## Overview
Provide a brief 2-3 sentence overview of what this video covers and how the chapters connect to tell a complete story.

## Chapter-by-Chapter Deep Dive
For each chapter below, provide a detailed summary focusing on:
- Core concepts and main points
- Key insights and takeaways specific to that chapter
- Actionable strategies or advice mentioned
- Important examples, statistics, or case studies
- How this chapter connects to the overall video theme

`

const chapterDirective = "Summarize the key points, insights, and actionable advice from this chapter specifically."

const crossChapterSynthesis = `## Cross-Chapter Synthesis
Identify themes, concepts, or strategies that appear across multiple chapters and how they build upon each other.

Based on the chapter structure, outline how the video guides viewers through a learning journey from start to finish.

Highlight the most important points from across all chapters, noting which chapters they come from.

## Actionable Strategies by Chapter
Organize practical advice and strategies by their respective chapters for easy reference.

List any warnings or pitfalls mentioned, noting which chapters discuss them.

Any resources, tools, or next steps mentioned, organized by chapter when relevant.

`

const chapterReminder = "IMPORTANT: Use the chapter timestamps to understand the flow and organization of content. " +
	"When mentioning insights or advice, reference the specific chapter it comes from to help readers navigate back to the source material.\n\n"

const chapterFallback = `Focus on:
- The main topics and concepts covered in this chapter
- Key insights and takeaways specific to this section
- Actionable strategies or advice mentioned
- Important examples, statistics, or case studies
- Any warnings or pitfalls discussed

Structure your response as follows:

## Chapter Overview
Brief summary of what this chapter covers.

## Key Points
Main concepts and insights from this chapter.

## Actionable Takeaways
Practical advice or strategies that can be implemented.

## Important Details
Specific examples, statistics, or details worth noting.

## Warnings & Considerations
Any cautions or potential pitfalls mentioned.

`
